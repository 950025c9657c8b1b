package simplecms

import (
	"strings"
	"time"
)

// ItemType is the domain type for the kind of a content item.
type ItemType string

// Item type constants (typed).
const (
	ItemTypePage         ItemType = "page"
	ItemTypePost         ItemType = "post"
	ItemTypeAnnouncement ItemType = "announcement"
)

// ItemTypes lists every valid item type in display order.
var ItemTypes = []ItemType{ItemTypePage, ItemTypePost, ItemTypeAnnouncement}

// IsValid reports whether t is one of the known item types.
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypePage, ItemTypePost, ItemTypeAnnouncement:
		return true
	}
	return false
}

// ParseItemType normalizes s and returns the matching ItemType.
func ParseItemType(s string) (ItemType, bool) {
	t := ItemType(normalizeEnum(s))
	return t, t.IsValid()
}

// ItemStatus is the domain type for the publication state of a content item.
type ItemStatus string

// Item status constants (typed).
const (
	ItemStatusDraft     ItemStatus = "draft"
	ItemStatusPublished ItemStatus = "published"
)

// IsValid reports whether s is one of the known item statuses.
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusDraft, ItemStatusPublished:
		return true
	}
	return false
}

// ParseItemStatus normalizes s and returns the matching ItemStatus.
func ParseItemStatus(s string) (ItemStatus, bool) {
	st := ItemStatus(normalizeEnum(s))
	return st, st.IsValid()
}

func normalizeEnum(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Item represents a single page, post or announcement.
//
// ID and CreatedAt are assigned by the repository on creation and never
// change afterwards. UpdatedAt is refreshed on every mutation and is never
// earlier than CreatedAt.
type Item struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Type      ItemType   `json:"type"`
	Status    ItemStatus `json:"status"`
	Author    string     `json:"author"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Clone returns a copy of the item.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// ItemFields holds the caller-supplied fields of a new item.
type ItemFields struct {
	Title   string
	Content string
	Type    ItemType
	Status  ItemStatus
	Author  string
}

// ItemPatch holds a partial update. Nil fields are left untouched.
// ID and CreatedAt are not patchable.
type ItemPatch struct {
	Title   *string
	Content *string
	Type    *ItemType
	Status  *ItemStatus
	Author  *string
}

// IsEmpty reports whether the patch changes no field.
func (p ItemPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Type == nil && p.Status == nil && p.Author == nil
}

// Apply copies the set fields of p onto item.
func (p ItemPatch) Apply(item *Item) {
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Content != nil {
		item.Content = *p.Content
	}
	if p.Type != nil {
		item.Type = *p.Type
	}
	if p.Status != nil {
		item.Status = *p.Status
	}
	if p.Author != nil {
		item.Author = *p.Author
	}
}

// Stats contains aggregate counts over the whole collection.
type Stats struct {
	Total         int `json:"total"`
	Published     int `json:"published"`
	Drafts        int `json:"drafts"`
	Pages         int `json:"pages"`
	Posts         int `json:"posts"`
	Announcements int `json:"announcements"`
}

// Add counts item into s.
func (s *Stats) Add(item *Item) {
	s.Total++
	switch item.Status {
	case ItemStatusPublished:
		s.Published++
	case ItemStatusDraft:
		s.Drafts++
	}
	switch item.Type {
	case ItemTypePage:
		s.Pages++
	case ItemTypePost:
		s.Posts++
	case ItemTypeAnnouncement:
		s.Announcements++
	}
}

// ComputeStats aggregates items into a fresh Stats value.
func ComputeStats(items []*Item) *Stats {
	s := &Stats{}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// DisplayName returns the name used as item author.
func (p Principal) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return p.Email
}
