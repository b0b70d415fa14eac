package model

type Staff struct {
	ID       int     `json:"id"`
	Username string  `json:"username"`
	Name     string  `json:"name"`
	Role     string  `json:"role"` // admin | cashier | waiter | other
	Shift    string  `json:"shift,omitempty"`
	Active   bool    `json:"active"`
	PayType  string  `json:"pay_type"` // hourly | fixed
	PayRate  float64 `json:"pay_rate"`
}

type StaffCreate struct {
	Username string  `json:"username"`
	Name     string  `json:"name"`
	Role     string  `json:"role,omitempty"`
	Shift    string  `json:"shift,omitempty"`
	Password string  `json:"password"`
	Active   *bool   `json:"active,omitempty"`
	PayType  string  `json:"pay_type,omitempty"`
	PayRate  float64 `json:"pay_rate,omitempty"`
}

// StaffUpdate is a partial patch; nil fields are left untouched server-side.
type StaffUpdate struct {
	Username *string  `json:"username,omitempty"`
	Name     *string  `json:"name,omitempty"`
	Role     *string  `json:"role,omitempty"`
	Shift    *string  `json:"shift,omitempty"`
	Active   *bool    `json:"active,omitempty"`
	PayType  *string  `json:"pay_type,omitempty"`
	PayRate  *float64 `json:"pay_rate,omitempty"`
}

type StaffShift struct {
	ID       int    `json:"id"`
	StaffID  int    `json:"staff_id"`
	ClockIn  string `json:"clock_in"`
	ClockOut string `json:"clock_out,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

type StaffPayment struct {
	ID          int     `json:"id"`
	StaffID     int     `json:"staff_id"`
	Amount      float64 `json:"amount"`
	Method      string  `json:"method"`
	PeriodStart string  `json:"period_start,omitempty"`
	PeriodEnd   string  `json:"period_end,omitempty"`
	PaidAt      string  `json:"paid_at"`
	Notes       string  `json:"notes,omitempty"`
}

type PaymentCreate struct {
	StaffID     int     `json:"staff_id"`
	Amount      float64 `json:"amount"`
	Method      string  `json:"method"`
	PeriodStart string  `json:"period_start,omitempty"`
	PeriodEnd   string  `json:"period_end,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}
