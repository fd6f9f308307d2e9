// internal/domain/models/stats.go
package models

// AdminStats is the response of GET /dashboard/admin/stats.
type AdminStats struct {
	TotalUsers   int     `json:"totalUsers"`
	TotalClubs   int     `json:"totalClubs"`
	TotalEvents  int     `json:"totalEvents"`
	TotalMembers int     `json:"totalMembers"`
	PendingClubs int     `json:"pendingClubs"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// ManagerStats is the response of GET /dashboard/manager/stats.
type ManagerStats struct {
	TotalClubs   int     `json:"totalClubs"`
	TotalMembers int     `json:"totalMembers"`
	TotalEvents  int     `json:"totalEvents"`
	TotalRevenue float64 `json:"totalRevenue"`
}
