package simplecms

// Request DTOs

// CreateItemRequest contains parameters for creating a new item.
// All fields are required; Author comes from the session principal.
type CreateItemRequest struct {
	Title   string
	Content string
	Type    string
	Status  string
}

// UpdateItemRequest contains a partial update. Nil fields are left untouched.
type UpdateItemRequest struct {
	Title   *string
	Content *string
	Type    *string
	Status  *string
}

// PublishedFilter narrows the public listing. A zero Type matches all types.
type PublishedFilter struct {
	Type ItemType
}
