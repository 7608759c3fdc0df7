package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ProfileKeyProfession   = "profession"
	ProfileKeyPersonalInfo = "personal_info_text"
)

type PersonalInfo struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Data      map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *PersonalInfo) Profession() string {
	if p == nil {
		return ""
	}
	return p.Data[ProfileKeyProfession]
}

func (p *PersonalInfo) Text() string {
	if p == nil {
		return ""
	}
	return p.Data[ProfileKeyPersonalInfo]
}

// Merge copies non-empty values into the stored data. Keys absent from
// updates, or present with an empty value, keep their current value.
// It reports whether anything changed.
func (p *PersonalInfo) Merge(updates map[string]string) bool {
	if p.Data == nil {
		p.Data = make(map[string]string)
	}
	changed := false
	for k, v := range updates {
		if v == "" || p.Data[k] == v {
			continue
		}
		p.Data[k] = v
		changed = true
	}
	return changed
}
