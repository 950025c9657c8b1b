package simplecms

import "time"

// DefaultAuthor is the author of the seed collection.
const DefaultAuthor = "Admin User"

// DefaultSeed returns the collection a fresh process starts with: two
// published pages, one published post and one draft announcement.
func DefaultSeed() []*Item {
	at := func(s string) time.Time {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			panic(err)
		}
		return t
	}

	return []*Item{
		{
			ID:        "1",
			Title:     "Welcome to Winalum",
			Content:   "This is the main welcome page content. Here you can introduce your organization and its mission.",
			Type:      ItemTypePage,
			Status:    ItemStatusPublished,
			Author:    DefaultAuthor,
			CreatedAt: at("2024-01-15T10:00:00Z"),
			UpdatedAt: at("2024-01-15T10:00:00Z"),
		},
		{
			ID:        "2",
			Title:     "About Us",
			Content:   "Learn more about our organization, our history, and our commitment to excellence.",
			Type:      ItemTypePage,
			Status:    ItemStatusPublished,
			Author:    DefaultAuthor,
			CreatedAt: at("2024-01-16T14:30:00Z"),
			UpdatedAt: at("2024-01-16T14:30:00Z"),
		},
		{
			ID:        "3",
			Title:     "Latest News Update",
			Content:   "Stay updated with the latest news and announcements from our organization.",
			Type:      ItemTypePost,
			Status:    ItemStatusPublished,
			Author:    DefaultAuthor,
			CreatedAt: at("2024-01-17T09:15:00Z"),
			UpdatedAt: at("2024-01-17T09:15:00Z"),
		},
		{
			ID:        "4",
			Title:     "Important Announcement",
			Content:   "This is an important announcement that all members should be aware of.",
			Type:      ItemTypeAnnouncement,
			Status:    ItemStatusDraft,
			Author:    DefaultAuthor,
			CreatedAt: at("2024-01-18T16:45:00Z"),
			UpdatedAt: at("2024-01-18T16:45:00Z"),
		},
	}
}
