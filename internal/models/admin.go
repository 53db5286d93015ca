package models

// Admin is the privileged reviewer. The password hash never leaves the store.
type Admin struct {
	ID           string `json:"_id,omitempty" bson:"-"`
	Username     string `json:"username" bson:"username"`
	PasswordHash string `json:"-" bson:"password"`
}
