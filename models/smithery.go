package models

// SmitheryServer is one entry of the Smithery registry.
type SmitheryServer struct {
	QualifiedName string `json:"qualifiedName"`
	DisplayName   string `json:"displayName"`
	Description   string `json:"description"`
	Homepage      string `json:"homepage,omitempty"`
	UseCount      int    `json:"useCount"`
	IsDeployed    bool   `json:"isDeployed"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

// SmitheryPagination mirrors the registry's pagination block.
type SmitheryPagination struct {
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalPages  int `json:"totalPages"`
	TotalCount  int `json:"totalCount"`
}

// SmitheryServerList is a page of registry results.
type SmitheryServerList struct {
	Servers    []SmitheryServer   `json:"servers"`
	Pagination SmitheryPagination `json:"pagination"`
}
