package lists

type ListListsQuery struct {
	UserID   int    `query:"user_id" json:"user_id,omitempty" validate:"min=0"`
	Category string `query:"category" json:"category,omitempty" validate:"category"`
	Limit    int    `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=100"`
	Offset   int    `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

type AdoptTemplatePayload struct {
	TemplateID int `json:"template_id" validate:"required,min=1"`
}

type ItemPayload struct {
	Title      string  `json:"title" mod:"trim" validate:"required,max=500"`
	ExternalID *string `json:"external_id,omitempty" mod:"trim" validate:"omitempty,min=1,max=200" tstype:"string"`
	CoverImage *string `json:"cover_image,omitempty" mod:"trim" validate:"omitempty,web_url,max=2000" tstype:"string"`
	Subtitle   *string `json:"subtitle,omitempty" validate:"omitempty,max=500" tstype:"string"`
	Year       *int    `json:"year,omitempty" validate:"omitempty,min=1000,max=3000" tstype:"number"`
}

func (p ItemPayload) input() ItemInput {
	return ItemInput{
		Title:      p.Title,
		ExternalID: p.ExternalID,
		CoverImage: p.CoverImage,
		Subtitle:   p.Subtitle,
		Year:       p.Year,
	}
}

type AddItemsPayload struct {
	Items                 []ItemPayload `json:"items" validate:"required,min=1,max=50,dive"`
	ExpectedExistingCount *int          `json:"expected_existing_count" validate:"required,min=0" tstype:"number"`
}

type ReorderItemsPayload struct {
	ItemIDs []int `json:"item_ids" validate:"required,min=1,dive,min=1"`
}
