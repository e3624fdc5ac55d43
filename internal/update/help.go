package update

import (
	"github.com/sandeepkv93/todo/internal/views"
)

const helpMarkdown = `Press **a** to type a new task and **enter** to add it.
Select a row with **j/k**, then **space** toggles it, **e** edits it and **d** deletes it.
While editing, **enter**, **esc** or moving off the row saves the text; an empty edit restores the previous text.

Palette commands (open with **/**):

- ` + "`add <text>`" + `
- ` + "`toggle <n>`" + `, ` + "`delete <n>`" + `
- ` + "`edit <n> <text>`" + `
- ` + "`seed [count]`" + ` replaces the list with demo tasks
`

func (m Model) renderHelpView() string {
	m.helpModel.ShowAll = true
	return views.RenderHelpPanel(views.HelpPanelData{
		Markdown: helpMarkdown,
		HelpView: m.helpModel.View(m.Keys),
	})
}
