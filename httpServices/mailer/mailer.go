package mailer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"localserve/models/otp"
)

// Client delivers transactional mail through the HTTP mail gateway.
type Client struct {
	httpClient *http.Client
	baseURL    string
	from       string
	fromName   string
}

func NewClient(baseURL, from, fromName string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:  baseURL,
		from:     from,
		fromName: fromName,
	}
}

type sendRequest struct {
	From     string `json:"from"`
	FromName string `json:"from_name"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}

func (c *Client) send(req sendRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequest("POST", c.baseURL+"/v1/send", bytes.NewBuffer(body))
	if err != nil {
		return err
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return errors.New("mail gateway returned non-OK status: " + resp.Status)
	}

	return nil
}

// SendOTPEmail delivers a one-time code. A failure here is fatal to the
// issuance call that requested it.
func (c *Client) SendOTPEmail(to, code string, purpose otp.Purpose) error {
	subject := "Kairo Services -- Your Login Code"
	action := "sign in"
	if purpose == otp.PurposeRegistration {
		subject = "Kairo Services -- Verify Your Email"
		action = "verify your account"
	}

	body := fmt.Sprintf("Use this code to %s: %s\nThis code expires in 10 minutes. Do not share it with anyone.", action, code)

	return c.send(sendRequest{
		From:     c.from,
		FromName: c.fromName,
		To:       to,
		Subject:  subject,
		Body:     body,
	})
}

// SendBookingEmail delivers a booking status update. Callers treat failures
// as best-effort.
func (c *Client) SendBookingEmail(to string, bookingID uint, status string) error {
	subjects := map[string]string{
		"requested": "New Booking Request",
		"accepted":  "Booking Accepted",
		"rejected":  "Booking Update",
		"completed": "Booking Completed",
		"cancelled": "Booking Cancelled",
	}

	subject, ok := subjects[status]
	if !ok {
		subject = "Booking Update"
	}

	body := fmt.Sprintf("%s\nBooking #%d", subject, bookingID)

	return c.send(sendRequest{
		From:     c.from,
		FromName: c.fromName,
		To:       to,
		Subject:  "Kairo Services -- " + subject,
		Body:     body,
	})
}
