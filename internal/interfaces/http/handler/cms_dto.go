package handler

// CreatePageRequest creates a draft page, post or landing page
type CreatePageRequest struct {
	Title          string `json:"title" binding:"required,min=1,max=200"`
	Slug           string `json:"slug" binding:"omitempty,slug"`
	Kind           string `json:"kind" binding:"omitempty,oneof=page post landing"`
	Locale         string `json:"locale" binding:"omitempty,bcp47_language_tag"`
	Excerpt        string `json:"excerpt" binding:"omitempty,max=500"`
	Body           string `json:"body" binding:"omitempty,max=200000"`
	SEOTitle       string `json:"seo_title" binding:"omitempty,max=70"`
	SEODescription string `json:"seo_description" binding:"omitempty,max=160"`
	CoverImageKey  string `json:"cover_image_key" binding:"omitempty,max=500"`
}

// UpdatePageRequest edits the non-null fields of a page
type UpdatePageRequest struct {
	Title          *string `json:"title" binding:"omitempty,min=1,max=200"`
	Slug           *string `json:"slug" binding:"omitempty,slug"`
	Excerpt        *string `json:"excerpt" binding:"omitempty,max=500"`
	Body           *string `json:"body" binding:"omitempty,max=200000"`
	SEOTitle       *string `json:"seo_title" binding:"omitempty,max=70"`
	SEODescription *string `json:"seo_description" binding:"omitempty,max=160"`
	CoverImageKey  *string `json:"cover_image_key" binding:"omitempty,max=500"`
}

// PageListQuery represents query parameters for listing pages
type PageListQuery struct {
	Keyword  string `form:"keyword" binding:"omitempty,max=100"`
	Kind     string `form:"kind" binding:"omitempty,oneof=page post landing"`
	Status   string `form:"status" binding:"omitempty,oneof=draft published archived"`
	Locale   string `form:"locale" binding:"omitempty,max=10"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=title slug status published_at created_at updated_at"`
	SortDir  string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
}

// MediaListQuery represents query parameters for listing media
type MediaListQuery struct {
	Keyword     string `form:"keyword" binding:"omitempty,max=100"`
	ContentType string `form:"content_type" binding:"omitempty,max=100"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}
