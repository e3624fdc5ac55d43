package views

import (
	"fmt"
	"strings"
)

type TaskRowData struct {
	Position  int
	Text      string
	Completed bool
	Selected  bool
	Editing   bool
	EditView  string
}

type TaskListData struct {
	Loading      bool
	SpinnerView  string
	Rows         []TaskRowData
	Remaining    int
	NewTaskView  string
	CaptureFocus bool
}

type NoticeData struct {
	Level   string
	Message string
}

type HelpPanelData struct {
	Markdown string
	HelpView string
}

func RenderTaskList(data TaskListData) string {
	var b strings.Builder
	b.WriteString("My Todo List\n\n")
	if data.Loading {
		b.WriteString(fmt.Sprintf("%s loading tasks...\n", data.SpinnerView))
	} else if len(data.Rows) == 0 {
		b.WriteString("(no tasks yet)\n")
	}
	for _, row := range data.Rows {
		b.WriteString(renderTaskRow(row))
		b.WriteString("\n")
	}
	if !data.Loading {
		b.WriteString(fmt.Sprintf("\n%d of %d remaining\n", data.Remaining, len(data.Rows)))
	}
	b.WriteString("\n")
	prompt := data.NewTaskView
	if data.CaptureFocus {
		prompt = cursorStyle.Render("»") + " " + prompt
	}
	b.WriteString(prompt)
	return strings.TrimSpace(b.String())
}

func renderTaskRow(row TaskRowData) string {
	cursor := " "
	if row.Selected {
		cursor = cursorStyle.Render(">")
	}
	box := "[ ]"
	if row.Completed {
		box = "[x]"
	}
	text := row.Text
	if row.Editing {
		text = row.EditView
	} else if row.Completed {
		text = completedStyle.Render(text)
	}
	return fmt.Sprintf("%s %2d. %s %s", cursor, row.Position, box, text)
}

func RenderNotices(items []NoticeData) string {
	lines := make([]string, 0, len(items))
	for _, n := range items {
		if strings.TrimSpace(n.Message) == "" {
			continue
		}
		line := n.Message
		if n.Level == "error" {
			line = errorStyle.Render("error: " + n.Message)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "command:\n" + inputView
}

func RenderHelpPanel(data HelpPanelData) string {
	return strings.TrimSpace(fmt.Sprintf("help:\n%s\n\n%s", RenderMarkdown(data.Markdown), data.HelpView))
}
