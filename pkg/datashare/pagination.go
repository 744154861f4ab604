package datashare

const (
	// ItemsPerPage is the default page size of the resource and request lists.
	ItemsPerPage = 5
	// CompleteListPageSize is large enough to fetch a whole list in one page.
	CompleteListPageSize = 999999999
)

// PageCount returns ceil(totalCount / pageSize), or 0 when pageSize is not
// positive.
func PageCount(totalCount, pageSize int) int {
	if pageSize <= 0 || totalCount <= 0 {
		return 0
	}

	return (totalCount + pageSize - 1) / pageSize
}

func StartIndex(page, pageSize int) int {
	return page * pageSize
}
