package domain

type NotificationMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type TradeRequestedMailData struct {
	FullName      string `json:"fullName"`
	RequesterName string `json:"requesterName"`
	ShiftDate     string `json:"shiftDate"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	ExpiresAt     string `json:"expiresAt"`
}

type TradeRespondedMailData struct {
	FullName      string `json:"fullName"`
	ResponderName string `json:"responderName"`
	Decision      string `json:"decision"`
	ShiftDate     string `json:"shiftDate"`
}

type TradeDecidedMailData struct {
	FullName     string `json:"fullName"`
	Decision     string `json:"decision"`
	ShiftDate    string `json:"shiftDate"`
	ManagerNotes string `json:"managerNotes"`
}
