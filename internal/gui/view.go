//go:build !nogui

package gui

import (
	"notepad/internal/filetype"
	"notepad/internal/tabs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// editor is the widget set shown for one tab: the text entry next to its
// highlighted rendering.
type editor struct {
	item    *container.TabItem
	entry   *editorEntry
	preview *widget.RichText
}

// editorEntry is a multi-line monospace entry that lets the app see
// shortcuts before the entry consumes them.
type editorEntry struct {
	widget.Entry
	shortcut func(fyne.Shortcut) bool
}

func newEditorEntry(shortcut func(fyne.Shortcut) bool) *editorEntry {
	e := &editorEntry{shortcut: shortcut}
	e.MultiLine = true
	e.Wrapping = fyne.TextWrapOff
	e.TextStyle = fyne.TextStyle{Monospace: true}
	e.ExtendBaseWidget(e)
	return e
}

// TypedShortcut implements fyne.Shortcutable.
func (e *editorEntry) TypedShortcut(s fyne.Shortcut) {
	if e.shortcut != nil && e.shortcut(s) {
		return
	}
	e.Entry.TypedShortcut(s)
}

func (a *App) newEditor(t *tabs.Tab) *editor {
	ed := &editor{
		entry:   newEditorEntry(a.handleShortcut),
		preview: widget.NewRichText(),
	}
	ed.preview.Wrapping = fyne.TextWrapOff
	a.quietly(func() { ed.entry.SetText(t.Document().Text()) })
	ed.entry.OnChanged = func(text string) {
		if a.syncing {
			return
		}
		a.mgr.Edit(t, text)
	}

	split := container.NewHSplit(ed.entry, container.NewScroll(ed.preview))
	split.Offset = 0.55
	ed.item = container.NewTabItem(t.Title(), split)
	a.render(ed, t)
	return ed
}

// render redraws the highlighted preview of t.
func (a *App) render(ed *editor, t *tabs.Tab) {
	ed.preview.Segments = segments(a, t)
	ed.preview.Refresh()
}

// segments turns the highlighted lines of t into rich text. Each line
// ends with a non-inline segment so the next one starts a new row.
func segments(a *App, t *tabs.Tab) []widget.RichTextSegment {
	var out []widget.RichTextSegment
	for _, line := range t.Document().Highlight() {
		for i, seg := range line {
			out = append(out, &widget.TextSegment{
				Text: seg.Text,
				Style: widget.RichTextStyle{
					ColorName: styleColor(seg.Style),
					Inline:    i < len(line)-1,
					SizeName:  theme.SizeNameText,
					TextStyle: textStyle(a.cfg, seg.Style),
				},
			})
		}
	}
	return out
}

// View implementation

func (a *App) TabAdded(t *tabs.Tab, index int) {
	ed := a.newEditor(t)
	a.editors[t] = ed
	a.quietly(func() {
		if index >= len(a.docTabs.Items) {
			a.docTabs.Append(ed.item)
			return
		}
		a.docTabs.Items = append(a.docTabs.Items[:index], append([]*container.TabItem{ed.item}, a.docTabs.Items[index:]...)...)
		a.docTabs.Refresh()
	})
	a.syncWatcher()
}

func (a *App) TabRemoved(t *tabs.Tab, _ int) {
	ed, ok := a.editors[t]
	if !ok {
		return
	}
	delete(a.editors, t)
	a.quietly(func() { a.docTabs.Remove(ed.item) })
	a.syncWatcher()
	a.updateStatus()
}

func (a *App) TabActivated(t *tabs.Tab, _ int) {
	ed, ok := a.editors[t]
	if !ok {
		return
	}
	a.quietly(func() { a.docTabs.Select(ed.item) })
	a.window.Canvas().Focus(ed.entry)
	a.updateStatus()
}

func (a *App) TabChanged(t *tabs.Tab) {
	ed, ok := a.editors[t]
	if !ok {
		return
	}
	ed.item.Text = t.Title()
	if text := t.Document().Text(); ed.entry.Text != text {
		a.quietly(func() { ed.entry.SetText(text) })
	}
	a.render(ed, t)
	a.docTabs.Refresh()
	a.syncWatcher()
	a.updateStatus()
}

func (a *App) TabMoved(_ *tabs.Tab, _, _ int) {
	items := make([]*container.TabItem, 0, a.mgr.Len())
	for _, t := range a.mgr.Tabs() {
		if ed, ok := a.editors[t]; ok {
			items = append(items, ed.item)
		}
	}
	a.quietly(func() {
		a.docTabs.Items = items
		a.docTabs.Refresh()
		if ed, ok := a.editors[a.mgr.Active()]; ok {
			a.docTabs.Select(ed.item)
		}
	})
}

func (a *App) SelectorChanged(ft *filetype.FileType) {
	a.quietly(func() { a.selector.SetSelected(ft.Tag) })
	a.updateStatus()
}
