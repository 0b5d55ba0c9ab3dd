package github

// pageSize is the fixed page size for every listing walk
const pageSize = 100

// fetchAllPages walks a page-numbered listing endpoint by requesting page
// 1, 2, 3, ... and concatenating items until a page comes back shorter
// than the page size. A single failed page aborts the whole walk; no
// retry is attempted.
func fetchAllPages[T any](fetch func(page int) ([]T, error)) ([]T, error) {
	var items []T
	for page := 1; ; page++ {
		pageItems, err := fetch(page)
		if err != nil {
			return nil, err
		}
		items = append(items, pageItems...)
		if len(pageItems) < pageSize {
			return items, nil
		}
	}
}
