/*
Package templating provides a filesystem-based html/template engine for
documentation pages that embed the markup components.

Pages (*.tmpl.html) and partials (*.part.html) are discovered recursively under
the template directory and parsed into a single set, so pages can include any
partial by its path relative to that directory. Every template has access to the
component helpers (infoCard, featureGrid, statusBadge, codeBlock, alertBox), a
handful of arithmetic and logic helpers, dict/list builders and a goldmark
backed markdown function.

The engine supports hot-reloading: Refresh re-parses the set on demand and
Watch does it automatically when files change on disk.
*/
package templating
