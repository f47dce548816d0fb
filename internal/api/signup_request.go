package api

// swagger:model api.SignupRequest
type SignupRequest struct {
	FirstName   string `json:"firstName" validate:"required" example:"Alice"`
	LastName    string `json:"lastName" validate:"required" example:"Chen"`
	Email       string `json:"email" validate:"required,email" example:"alice@example.com"`
	Password    string `json:"password" validate:"required,min=6" example:"Secret123!"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"omitempty,e164" example:"+886912345678"`
	Address     string `json:"address,omitempty" example:"Taipei"`
	Avatar      string `json:"avatar,omitempty" validate:"omitempty,url"`
}
