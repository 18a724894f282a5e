package shared

// PageRequest is the offset/limit window of a listing request.
type PageRequest struct {
	Limit  int
	Offset int
}

// Normalize clamps the window to sane bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 200 {
		p.Limit = 200
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// PageWindow describes a neighbouring page in pagination metadata.
type PageWindow struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Pagination is the metadata block returned alongside paginated listings.
type Pagination struct {
	Total         int         `json:"total"`
	CurrentOffset int         `json:"currentOffset"`
	CurrentLimit  int         `json:"currentLimit"`
	Prev          *PageWindow `json:"prev,omitempty"`
	Next          *PageWindow `json:"next,omitempty"`
}

// NewPagination computes pagination metadata for an offset/limit window.
func NewPagination(req PageRequest, total int) Pagination {
	req = req.Normalize()
	meta := Pagination{
		Total:         total,
		CurrentOffset: req.Offset,
		CurrentLimit:  req.Limit,
	}
	if req.Offset > 0 {
		prev := req.Offset - req.Limit
		if prev < 0 {
			prev = 0
		}
		meta.Prev = &PageWindow{Offset: prev, Limit: req.Limit}
	}
	if req.Offset+req.Limit < total {
		meta.Next = &PageWindow{Offset: req.Offset + req.Limit, Limit: req.Limit}
	}
	return meta
}
