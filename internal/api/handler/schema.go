package handler

type registerRequest struct {
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" validate:"omitempty,email" example:"alice@example.com"`
	Password string `json:"password" example:"s3cret"`
	Role     string `json:"role,omitempty" example:"USER"`
}

type loginRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"s3cret"`
}

type createRaceRequest struct {
	Title         string `json:"title" validate:"max=200" example:"Italian Grand Prix"`
	Championship  string `json:"championship" validate:"max=100" example:"F1"`
	Type          string `json:"type" example:"GRAND_PRIX"`
	Location      string `json:"location" validate:"max=200" example:"Monza"`
	RaceStartTime string `json:"raceStartTime" example:"2024-09-01T13:00:00Z"`
}

type updateRaceRequest struct {
	Title         *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Championship  *string `json:"championship,omitempty" validate:"omitempty,max=100"`
	Type          *string `json:"type,omitempty"`
	Location      *string `json:"location,omitempty" validate:"omitempty,max=200"`
	RaceStartTime *string `json:"raceStartTime,omitempty"`
}

type updateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
}

// ErrorEnvelope is the failure response shape written by the error handler.
type ErrorEnvelope struct {
	Success    bool   `json:"success" example:"false"`
	StatusCode int    `json:"statusCode" example:"400"`
	Message    string `json:"message"`
	Err        string `json:"err,omitempty"`
}
