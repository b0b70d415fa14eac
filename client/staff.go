package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"licorera-pos/model"
)

// Staff, attendance and payroll endpoints. All of these are privileged.

func (c *Client) FetchStaff(ctx context.Context) ([]model.Staff, error) {
	var out []model.Staff
	err := c.do(ctx, http.MethodGet, "/staff", nil, nil, &out, privileged)
	return out, err
}

func (c *Client) CreateStaff(ctx context.Context, req model.StaffCreate) (model.Staff, error) {
	var out model.Staff
	err := c.do(ctx, http.MethodPost, "/staff", nil, req, &out, privileged)
	return out, err
}

func (c *Client) UpdateStaff(ctx context.Context, id int, patch model.StaffUpdate) (model.Staff, error) {
	var out model.Staff
	err := c.do(ctx, http.MethodPut, "/staff/"+strconv.Itoa(id), nil, patch, &out, privileged)
	return out, err
}

func (c *Client) UpdateStaffPassword(ctx context.Context, id int, password string) error {
	body := map[string]string{"password": password}
	var out struct {
		OK bool `json:"ok"`
	}
	return c.do(ctx, http.MethodPut, "/staff/"+strconv.Itoa(id)+"/password", nil, body, &out, privileged)
}

func (c *Client) DeleteStaff(ctx context.Context, id int) error {
	var out struct {
		OK bool `json:"ok"`
	}
	return c.do(ctx, http.MethodDelete, "/staff/"+strconv.Itoa(id), nil, nil, &out, privileged)
}

func (c *Client) ClockIn(ctx context.Context, staffID int) (model.StaffShift, error) {
	var out model.StaffShift
	err := c.do(ctx, http.MethodPost, "/staff/"+strconv.Itoa(staffID)+"/clock-in", nil, struct{}{}, &out, privileged)
	return out, err
}

func (c *Client) ClockOut(ctx context.Context, staffID int) (model.StaffShift, error) {
	var out model.StaffShift
	err := c.do(ctx, http.MethodPost, "/staff/"+strconv.Itoa(staffID)+"/clock-out", nil, struct{}{}, &out, privileged)
	return out, err
}

func (c *Client) FetchShifts(ctx context.Context, staffID int, start, end string) ([]model.StaffShift, error) {
	query := url.Values{}
	if start != "" {
		query.Set("start", start)
	}
	if end != "" {
		query.Set("end", end)
	}
	var out []model.StaffShift
	err := c.do(ctx, http.MethodGet, "/staff/"+strconv.Itoa(staffID)+"/shifts", query, nil, &out, privileged)
	return out, err
}

func (c *Client) DeleteShift(ctx context.Context, shiftID int) error {
	var out struct {
		OK bool `json:"ok"`
	}
	return c.do(ctx, http.MethodDelete, "/staff/shifts/"+strconv.Itoa(shiftID), nil, nil, &out, privileged)
}

func (c *Client) CreatePayment(ctx context.Context, req model.PaymentCreate) (model.StaffPayment, error) {
	var out model.StaffPayment
	err := c.do(ctx, http.MethodPost, "/staff/payments", nil, req, &out, privileged)
	return out, err
}

func (c *Client) FetchPayments(ctx context.Context, staffID int, start, end string) ([]model.StaffPayment, error) {
	query := url.Values{}
	if staffID != 0 {
		query.Set("staff_id", strconv.Itoa(staffID))
	}
	if start != "" {
		query.Set("start", start)
	}
	if end != "" {
		query.Set("end", end)
	}
	var out []model.StaffPayment
	err := c.do(ctx, http.MethodGet, "/staff/payments", query, nil, &out, privileged)
	return out, err
}

func (c *Client) DeletePayment(ctx context.Context, paymentID int) error {
	var out struct {
		OK bool `json:"ok"`
	}
	return c.do(ctx, http.MethodDelete, "/staff/payments/"+strconv.Itoa(paymentID), nil, nil, &out, privileged)
}
