package guest

type CreateGuestRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	PeopleCount int    `json:"people_count"`
	Notes       string `json:"notes"`
	INN         string `json:"inn"`
	Status      string `json:"status"`
}

type UpdateGuestRequest struct {
	FullName    *string `json:"full_name"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Address     *string `json:"address"`
	PeopleCount *int    `json:"people_count"`
	Notes       *string `json:"notes"`
	INN         *string `json:"inn"`
	Status      *string `json:"status"`
}

// SendMessageRequest delivers a one-off note to the guest over sms or email.
type SendMessageRequest struct {
	Channel string `json:"channel" binding:"required"`
	Text    string `json:"text" binding:"required"`
}
