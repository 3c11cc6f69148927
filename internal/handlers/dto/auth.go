package dto

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"full_name" binding:"required,min=1,max=200"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	FullName    *string `json:"full_name" binding:"omitempty,min=1,max=200"`
	Bio         *string `json:"bio" binding:"omitempty,max=2000"`
	Company     *string `json:"company" binding:"omitempty,max=200"`
	Position    *string `json:"position" binding:"omitempty,max=200"`
	AvatarURL   *string `json:"avatar_url" binding:"omitempty,url"`
	LinkedInURL *string `json:"linkedin_url" binding:"omitempty,url"`
}
