package dto

// Pagination is a generic pagination envelope for list results.
// Page is 1-based; Total is the number of items matching the filters without pagination.
type Pagination[T any] struct {
	Data     []T   `json:"data"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

// PaginationPostDTO is a concrete swagger-friendly type for paginated posts response
// swagger:model PaginationPostDTO
type PaginationPostDTO = Pagination[PostDTO]

// PaginationCollectionLogDTO
// swagger:model PaginationCollectionLogDTO
type PaginationCollectionLogDTO = Pagination[CollectionLogDTO]
