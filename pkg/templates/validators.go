package templates

import "github.com/topnlists/topn/pkg/filters"

// TuplePayload is a filter tuple as sent by clients. Tags are checked by the
// service so that unknown values surface as invalid_filter.
type TuplePayload struct {
	Category      string  `json:"category" mod:"trim,lcase"`
	Genre         *string `json:"genre,omitempty" tstype:"string"`
	Decade        *string `json:"decade,omitempty" tstype:"string"`
	Keyword       *string `json:"keyword,omitempty" tstype:"string"`
	Certification *string `json:"certification,omitempty" tstype:"string"`
	Language      *string `json:"language,omitempty" tstype:"string"`
	Size          int     `json:"size"`
}

func (p TuplePayload) Tuple() filters.Tuple {
	return filters.Tuple{
		Category:      p.Category,
		Genre:         p.Genre,
		Decade:        p.Decade,
		Keyword:       p.Keyword,
		Certification: p.Certification,
		Language:      p.Language,
		Size:          p.Size,
	}
}

type ListTemplatesQuery struct {
	Category string `query:"category" json:"category,omitempty" validate:"category"`
	Core     *bool  `query:"core" json:"core,omitempty" tstype:"boolean"`
	Limit    int    `query:"limit" json:"limit,omitempty" default:"24" validate:"min=1,max=100"`
	Offset   int    `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

type PreviewResponse struct {
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

type CountResponse struct {
	TemplateID *int `json:"template_id"`
	UserCount  int  `json:"user_count"`
}
