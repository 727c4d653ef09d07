package models

/*
AdminUser is the principal stored in the admin session cookie.
*/
type AdminUser struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
