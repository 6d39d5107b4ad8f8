package service

import (
	"fmt"
	"strconv"
	"strings"
)

// Authorizer answers admin membership from a set fixed at construction.
type Authorizer struct {
	admins map[int64]struct{}
}

func NewAuthorizer(adminIDs []int64) *Authorizer {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Authorizer{admins: admins}
}

func (a *Authorizer) IsAdmin(telegramID int64) bool {
	_, ok := a.admins[telegramID]
	return ok
}

// ParseAdminIDs parses a comma-separated id list such as "1, 2,3".
// Blank entries are skipped.
func ParseAdminIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidAdminID, part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
