package model

// SortBy 管理員列表排序欄位
type SortBy string

const (
	SortByName      SortBy = "name"
	SortByCreatedAt SortBy = "createdAt"
	SortByType      SortBy = "type"
)

// ParseSortBy 空字串預設為 createdAt
func ParseSortBy(s string) (SortBy, bool) {
	switch SortBy(s) {
	case "":
		return SortByCreatedAt, true
	case SortByName, SortByCreatedAt, SortByType:
		return SortBy(s), true
	}
	return "", false
}

// FilterBy 出席狀態篩選
type FilterBy string

const (
	FilterAll     FilterBy = "all"
	FilterPresent FilterBy = "present"
	FilterAbsent  FilterBy = "absent"
)

// ParseFilterBy 空字串預設為 all
func ParseFilterBy(s string) (FilterBy, bool) {
	switch FilterBy(s) {
	case "":
		return FilterAll, true
	case FilterAll, FilterPresent, FilterAbsent:
		return FilterBy(s), true
	}
	return "", false
}

// Accepts 檢查票券是否符合出席篩選
func (f FilterBy) Accepts(t *Ticket) bool {
	switch f {
	case FilterPresent:
		return t.IsPresent
	case FilterAbsent:
		return !t.IsPresent
	}
	return true
}

// TicketStats 管理頁面的統計數字
type TicketStats struct {
	Total   int                `json:"total"`
	Present int                `json:"present"`
	Absent  int                `json:"absent"`
	ByType  map[TicketType]int `json:"byType"`
}
