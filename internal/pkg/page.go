package pkg

const (
	DefaultPageSize = 20
	MaxPageSize     = 200

	// MaxPage 保证 offset 不溢出
	MaxPage = 1 << 20
)

// Page 页码从 1 开始
type Page struct {
	Page int `form:"page" json:"page"`
	Size int `form:"size" json:"size"`
}

// Normalize 修正非法的页码和页大小
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Size
}

func (p Page) Limit() int {
	return p.Normalize().Size
}
