package dto

type CreateCategoryDTO struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
}
