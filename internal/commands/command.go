package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/todo/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeToggle Type = "toggle"
	TypeEdit   Type = "edit"
	TypeDelete Type = "delete"
	TypeSeed   Type = "seed"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs.Text may be blank; the store decides whether it is acceptable.
type AddArgs struct {
	Text string
}

// Position arguments are 1-based, as shown in the list.
type ToggleArgs struct {
	Position int
}

type EditArgs struct {
	Position int
	Text     string
}

type DeleteArgs struct {
	Position int
}

type SeedArgs struct {
	Count int
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Toggle *ToggleArgs
	Edit   *EditArgs
	Delete *DeleteArgs
	Seed   *SeedArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	head, rest, _ := strings.Cut(raw, " ")
	head = strings.ToLower(head)
	rest = strings.TrimSpace(rest)

	switch Type(head) {
	case TypeAdd:
		return Command{Type: TypeAdd, Raw: input, Add: &AddArgs{Text: rest}}, nil
	case TypeToggle:
		pos, err := parsePosition(head, rest)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeToggle, Raw: input, Toggle: &ToggleArgs{Position: pos}}, nil
	case TypeEdit:
		return parseEdit(input, rest)
	case TypeDelete:
		pos, err := parsePosition(head, rest)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeDelete, Raw: input, Delete: &DeleteArgs{Position: pos}}, nil
	case TypeSeed:
		return parseSeed(input, rest)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseEdit(raw, rest string) (Command, error) {
	posText, text, _ := strings.Cut(rest, " ")
	pos, err := parsePosition("edit", posText)
	if err != nil {
		return Command{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "edit requires new text"}
	}
	return Command{Type: TypeEdit, Raw: raw, Edit: &EditArgs{Position: pos, Text: text}}, nil
}

func parseSeed(raw, rest string) (Command, error) {
	if rest == "" {
		return Command{Type: TypeSeed, Raw: raw, Seed: &SeedArgs{Count: model.DefaultFakeTasks}}, nil
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n <= 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("seed count must be a positive number, got %q", rest)}
	}
	return Command{Type: TypeSeed, Raw: raw, Seed: &SeedArgs{Count: n}}, nil
}

func parsePosition(head, arg string) (int, error) {
	fields := strings.Fields(arg)
	if len(fields) != 1 {
		return 0, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a task number", head)}
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return 0, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s: invalid task number %q", head, fields[0])}
	}
	return n, nil
}
