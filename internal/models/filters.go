package models

// PageQuery represents pagination parameters for listings
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

// ReportFilter represents filter parameters for the trip report
type ReportFilter struct {
	VehicleID string `form:"vehicleId"`
	StartDate string `form:"startDate"` // YYYY-MM-DD
	EndDate   string `form:"endDate"`   // YYYY-MM-DD
}
