package domain

// ServiceRole is the role the dashboard presents to the ticket API.
type ServiceRole string

const (
	ServiceRoleAdmin ServiceRole = "admin"
	ServiceRoleUser  ServiceRole = "user"
)
