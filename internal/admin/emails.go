package admin

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/text/cases"
)

var (
	ErrNoEmails     = errors.New("no e-mail addresses given")
	ErrInvalidEmail = errors.New("invalid e-mail address")
)

var emailFolder = cases.Fold()

// NormalizeEmails splits the inputs on commas and whitespace, case-folds each
// address and drops duplicates while keeping first-seen order.
func NormalizeEmails(inputs ...string) ([]string, error) {
	seen := make(map[string]struct{})
	var emails []string

	for _, input := range inputs {
		fields := strings.FieldsFunc(input, func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
		})

		for _, field := range fields {
			addr, err := mail.ParseAddress(field)
			if err != nil || addr.Address != field {
				return nil, fmt.Errorf("%w: %q", ErrInvalidEmail, field)
			}

			email := emailFolder.String(addr.Address)
			if _, dup := seen[email]; dup {
				continue
			}
			seen[email] = struct{}{}
			emails = append(emails, email)
		}
	}

	if len(emails) == 0 {
		return nil, ErrNoEmails
	}

	return emails, nil
}
