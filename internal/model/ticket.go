package model

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"
)

// TicketType 報名身分類別
type TicketType string

const (
	TicketTypeStudent  TicketType = "student"
	TicketTypeAlumni   TicketType = "alumni"
	TicketTypeRelative TicketType = "relative"
)

// TicketTypes 依固定順序列出所有類別
var TicketTypes = []TicketType{TicketTypeStudent, TicketTypeAlumni, TicketTypeRelative}

// IsValid 驗證類別是否有效
func (t TicketType) IsValid() bool {
	switch t {
	case TicketTypeStudent, TicketTypeAlumni, TicketTypeRelative:
		return true
	}
	return false
}

var ticketCodePattern = regexp.MustCompile(`^[0-9]{4}$`)

// IsValidTicketCode 檢查票號是否為 4 位數字
func IsValidTicketCode(code string) bool {
	return ticketCodePattern.MatchString(code)
}

// Ticket 票券模型
type Ticket struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	Email      string     `json:"email" db:"email"`
	Phone      string     `json:"phone" db:"phone"`
	Type       TicketType `json:"type" db:"type"`
	TicketCode string     `json:"ticketCode" db:"ticket_code"`
	IsPresent  bool       `json:"isPresent" db:"is_present"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	// PresentAt 只有在 IsPresent 為 true 時有值
	PresentAt null.Time `json:"presentAt" db:"present_at"`
}

// MatchesAnyIdentityField 報名重複判斷：姓名、email (不分大小寫)、電話任一相同即視為同一人。
// 這只是盡力而為的去重，並非儲存層保證的唯一鍵。
func (t *Ticket) MatchesAnyIdentityField(name, email, phone string) bool {
	return t.Name == name ||
		strings.EqualFold(t.Email, email) ||
		t.Phone == phone
}

// MatchesSearch 以不分大小寫的子字串比對姓名、email、電話與票號
func (t *Ticket) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, field := range []string{t.Name, t.Email, t.Phone, t.TicketCode} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// RegisterTicketRequest 報名請求
type RegisterTicketRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Type  string `json:"type" binding:"required"`
}

// CheckInRequest 報到請求
type CheckInRequest struct {
	TicketCode string `json:"ticketCode" binding:"required"`
}

// UpdatePresenceRequest 管理員修改出席狀態
type UpdatePresenceRequest struct {
	TicketID  string `json:"ticketId" binding:"required"`
	IsPresent *bool  `json:"isPresent" binding:"required"`
}

// ListTicketsQuery 管理員票券列表查詢條件
type ListTicketsQuery struct {
	Search   string `form:"search"`
	SortBy   string `form:"sortBy"`
	FilterBy string `form:"filterBy"`
}
