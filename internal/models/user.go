package models

type User struct {
	ID    int64  `db:"id" json:"id" yaml:"id"`
	Name  string `db:"name" json:"name" yaml:"name" validate:"notblank"`
	Email string `db:"email" json:"email" yaml:"email" validate:"required,email"`
}

// UserPatch carries a partial user update; nil fields are left unchanged.
type UserPatch struct {
	Name  *string `json:"name" validate:"omitempty,notblank"`
	Email *string `json:"email" validate:"omitempty,email"`
}
