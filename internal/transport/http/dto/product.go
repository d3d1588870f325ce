package dto

type AddProductInput struct {
	Title    string `json:"title" validate:"required,max=200"`
	Price    string `json:"price" validate:"required"`
	Image    string `json:"image" validate:"required"`
	Category string `json:"category,omitempty"`
}
