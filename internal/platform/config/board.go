package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"intakebridge/internal/domain/routing"
	"intakebridge/internal/integrations/monday"
)

// Board is the column map and routing directory used when writing items.
// It is built once at startup and only read afterwards.
type Board struct {
	Columns   monday.ColumnMap
	Directory routing.Directory
}

type boardFile struct {
	Columns             map[string]string `yaml:"columns"`
	EmailDomain         string            `yaml:"email_domain"`
	DepartmentMailboxes map[string]string `yaml:"department_mailboxes"`
	CorporateContacts   []string          `yaml:"corporate_contacts"`
	CorporateMailbox    string            `yaml:"corporate_mailbox"`
}

func DefaultBoard() Board {
	return Board{Columns: monday.DefaultColumns(), Directory: routing.DefaultDirectory()}
}

// LoadBoard reads the YAML file at path over the defaults. An empty path
// returns the defaults.
func LoadBoard(path string) (Board, error) {
	board := DefaultBoard()
	if strings.TrimSpace(path) == "" {
		return board, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Board{}, fmt.Errorf("read board config: %w", err)
	}
	return ParseBoard(data)
}

func ParseBoard(data []byte) (Board, error) {
	board := DefaultBoard()
	var file boardFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Board{}, fmt.Errorf("parse board config: %w", err)
	}

	defaults := monday.DefaultColumns()
	for key := range file.Columns {
		if _, ok := defaults[key]; !ok {
			return Board{}, fmt.Errorf("board config: unknown column field %q", key)
		}
	}
	board.Columns = defaults.Merge(file.Columns)

	dir := board.Directory
	if v := strings.TrimSpace(file.EmailDomain); v != "" {
		dir.EmailDomain = v
	}
	if len(file.DepartmentMailboxes) > 0 {
		mailboxes := make(map[string]string, len(dir.DepartmentMailboxes))
		for k, v := range dir.DepartmentMailboxes {
			mailboxes[k] = v
		}
		for label, mailbox := range file.DepartmentMailboxes {
			canonical := routing.NormalizeDepartment(label)
			if canonical == "" {
				return Board{}, fmt.Errorf("board config: unknown department %q", label)
			}
			mailboxes[canonical] = strings.TrimSpace(mailbox)
		}
		dir.DepartmentMailboxes = mailboxes
	}
	if len(file.CorporateContacts) > 0 {
		dir.CorporateContacts = append([]string(nil), file.CorporateContacts...)
	}
	if v := strings.TrimSpace(file.CorporateMailbox); v != "" {
		dir.CorporateMailbox = v
	}
	board.Directory = dir
	return board, nil
}
