package pagination

// Pagination is page-number based: the invoice list always shows a fixed
// page size and resets to page 1 whenever the filter changes.
type Pagination struct {
	Page     int `form:"page,default=1" validate:"gte=1"`
	PageSize int `form:"page_size,default=10" validate:"gte=1,lte=250"`
}

type PageInfo struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalItems int  `json:"total_items"`
	TotalPages int  `json:"total_pages"`
	HasMore    bool `json:"has_more"`
}

func (p Pagination) normalized(defaultSize int) Pagination {
	out := p
	if out.Page < 1 {
		out.Page = 1
	}
	if out.PageSize < 1 {
		out.PageSize = defaultSize
	}
	return out
}

// Slice returns the requested page of data plus page info. A page past the
// end of the data yields an empty slice, not an error.
func Slice[T any](data []T, p Pagination, defaultSize int) ([]T, PageInfo) {
	p = p.normalized(defaultSize)

	total := len(data)
	pages := total / p.PageSize
	if total%p.PageSize != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}

	info := PageInfo{
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalItems: total,
		TotalPages: pages,
		HasMore:    p.Page < pages,
	}

	start := (p.Page - 1) * p.PageSize
	if start >= total {
		return []T{}, info
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}
	return data[start:end], info
}
