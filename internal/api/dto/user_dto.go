package dto

import "github.com/spec-kit/ticket-dashboard/internal/domain"

// UserPayload is an account as returned by GET /auth/api/users.
type UserPayload struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	IsAdmin   bool     `json:"is_admin"`
	CreatedAt FlexTime `json:"created_at"`
}

// UserListResponse wraps GET /auth/api/users.
type UserListResponse struct {
	Envelope
	Users []UserPayload `json:"users"`
}

// ToDomain converts the user list.
func (r UserListResponse) ToDomain() []domain.User {
	users := make([]domain.User, 0, len(r.Users))
	for _, u := range r.Users {
		users = append(users, domain.User{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			IsAdmin:   u.IsAdmin,
			CreatedAt: u.CreatedAt.Time,
		})
	}
	return users
}
