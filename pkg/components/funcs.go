package components

import (
	"fmt"
	"html/template"
)

// FuncMap returns the template functions wrapping the renderers.
// Arguments are positional, optional ones last:
//
//	{{infoCard "Fast" "Sends in seconds" "⚡" "#2563eb"}}
//	{{featureGrid (list (featureItem "A" "first" "1") (featureItem "B" "second" "2")) 2}}
//	{{statusBadge .Status}}
//	{{codeBlock "json" .Payload "Request body"}}
//	{{alertBox "warning" "Careful" "Check input"}}
//
// statusBadge and alertBox take a string, a Status or an AlertType.
// featureGrid accepts a []FeatureItem or a []any holding FeatureItem values,
// as produced by a list helper.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"infoCard":    infoCardFunc,
		"featureItem": featureItemFunc,
		"featureGrid": featureGridFunc,
		"statusBadge": statusBadgeFunc,
		"codeBlock":   codeBlockFunc,
		"alertBox":    alertBoxFunc,
	}
}

func infoCardFunc(title, description, icon string, color ...string) template.HTML {
	return InfoCard(InfoCardConfig{
		Title:       title,
		Description: description,
		Icon:        icon,
		Color:       firstOr(color, ""),
	})
}

func featureItemFunc(title, description, icon string, color ...string) FeatureItem {
	return FeatureItem{
		Title:       title,
		Description: description,
		Icon:        icon,
		Color:       firstOr(color, ""),
	}
}

func featureGridFunc(items any, columns ...int) (template.HTML, error) {
	var featureItems []FeatureItem
	switch v := items.(type) {
	case nil:
	case []FeatureItem:
		featureItems = v
	case []any:
		featureItems = make([]FeatureItem, len(v))
		for i, item := range v {
			fi, ok := item.(FeatureItem)
			if !ok {
				return "", fmt.Errorf("featureGrid: item %d is %T, not a FeatureItem", i, item)
			}
			featureItems[i] = fi
		}
	default:
		return "", fmt.Errorf("featureGrid: items must be a list of FeatureItem, got %T", items)
	}
	return FeatureGrid(FeatureGridConfig{Items: featureItems, Columns: firstOr(columns, 0)}), nil
}

func statusBadgeFunc(status any, badgeType ...string) template.HTML {
	return StatusBadge(StatusBadgeConfig{Status: Status(label(status)), Type: firstOr(badgeType, "")})
}

func codeBlockFunc(language, code string, title ...string) template.HTML {
	return CodeBlock(CodeBlockConfig{Language: language, Code: code, Title: firstOr(title, "")})
}

func alertBoxFunc(alertType any, title, message string) template.HTML {
	return AlertBox(AlertBoxConfig{Type: AlertType(label(alertType)), Title: title, Message: message})
}

// label accepts a plain string as well as a Status or AlertType from template data.
func label(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case Status:
		return string(v)
	case AlertType:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func firstOr[T any](values []T, fallback T) T {
	if len(values) == 0 {
		return fallback
	}
	return values[0]
}
