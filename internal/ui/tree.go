package ui

import (
	"fmt"

	"github.com/idilsaglam/todowidget/internal/dom"
)

// MountLines draws the widget's mount node as terminal lines: a header,
// the form as an input box with its button, then one bullet per <li>.
// input overrides the input element's value when non-nil, so a live
// terminal editor can stand in for it.
func MountLines(mount *dom.Element, input *string) []string {
	t := Current()

	var form, list *dom.Element
	for _, el := range mount.Children() {
		switch el.Tag() {
		case "form":
			form = el
		case "ul":
			list = el
		}
	}

	var items []string
	if list != nil {
		for _, li := range list.Children() {
			items = append(items, li.TextContent())
		}
	}

	lines := []string{
		fmt.Sprintf("%s   %s %d", t.Title.Render("Todos"), t.Accent.Render("Total"), len(items)),
		"",
	}

	if form != nil {
		value, label := "", ""
		if in := form.QuerySelector("input"); in != nil {
			value = in.Value()
		}
		if input != nil {
			value = *input
		}
		if btn := form.QuerySelector("button"); btn != nil {
			label = btn.TextContent()
		}
		lines = append(lines, t.InputLeft+value+t.InputRight+"  "+t.Accent.Render("("+label+")"))
		lines = append(lines, "")
	}

	if len(items) == 0 {
		lines = append(lines, t.Muted.Render("no items"))
	}
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s %s", t.Muted.Render(t.SymBullet), it))
	}
	return lines
}

// MountText renders the mount node as a framed panel.
func MountText(mount *dom.Element) string {
	return Panel(MountLines(mount, nil))
}
