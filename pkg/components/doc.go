/*
Package components renders the markup fragments used across documentation
pages: info cards, feature grids, status badges, code blocks and alert boxes.

Every renderer takes a single configuration value and returns template.HTML.
Renderers are pure and safe for concurrent use. Caller supplied text is escaped
by html/template, so a title or code sample is always displayed literally.

The emitted elements only carry class names (info-card, feature-grid,
status-badge, code-block, alert-box and their children). Visual styling belongs
to the stylesheet of whatever site embeds the fragments.

The renderers are also exposed to templates through FuncMap, and by name
through Render for callers that hold raw JSON or YAML props.
*/
package components
