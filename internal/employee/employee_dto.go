package employee

import "time"

// CreateEmployeePayload is the raw JSON body. Fields are untyped so that a
// number or object in place of a string is reported as a missing field
// rather than as a decode error.
type CreateEmployeePayload struct {
	FirstName     any `json:"firstName"`
	LastName      any `json:"lastName"`
	UserRole      any `json:"userRole"`
	Email         any `json:"email"`
	PhoneNumber   any `json:"phoneNumber"`
	ParentUserUID any `json:"parentUserUid"`
}

func (p CreateEmployeePayload) ToRequest() CreateEmployeeRequest {
	return CreateEmployeeRequest{
		FirstName:     asString(p.FirstName),
		LastName:      asString(p.LastName),
		UserRole:      asString(p.UserRole),
		Email:         asString(p.Email),
		PhoneNumber:   asString(p.PhoneNumber),
		ParentUserUID: asString(p.ParentUserUID),
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

type CreateEmployeeRequest struct {
	FirstName     string
	LastName      string
	UserRole      string
	Email         string
	PhoneNumber   string
	ParentUserUID string
}

type ListEmployeesQuery struct {
	ParentUserUID string `form:"parentUserUid" binding:"required"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

type EmployeeResponse struct {
	UserUID     string    `json:"userUid"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	LoginID     string    `json:"loginId"`
	UserRole    string    `json:"userRole"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	GarageUID   string    `json:"garageUid"`
	GarageID    string    `json:"garageId"`
	GarageName  string    `json:"garageName"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
