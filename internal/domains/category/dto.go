package category

// CategoryResp is a category as the API shows it.
type CategoryResp struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon"`
}

func ToResponse(c Category) CategoryResp {
	return CategoryResp{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Icon:        IconFor(c.Name),
	}
}

func ToResponses(categories []Category) []CategoryResp {
	out := make([]CategoryResp, 0, len(categories))
	for _, c := range categories {
		out = append(out, ToResponse(c))
	}
	return out
}
