package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDriverInvoiceNotify notifies a driver that an invoice was approved.
	TaskDriverInvoiceNotify = "notify:driver_invoice"
	// TaskInvoiceOverdueScan sweeps invoices past their due date.
	TaskInvoiceOverdueScan = "invoice:overdue_scan"
	// TaskInvoiceOverdueNotify announces a single invoice past its due date.
	TaskInvoiceOverdueNotify = "notify:invoice_overdue"
)

// DriverInvoiceNotifyPayload identifies the approved invoice to announce.
type DriverInvoiceNotifyPayload struct {
	CarrierID       string `json:"carrierId"`
	DriverInvoiceID string `json:"driverInvoiceId"`
	DriverID        string `json:"driverId"`
}

// NewDriverInvoiceNotifyTask constructs the notification task.
func NewDriverInvoiceNotifyTask(payload DriverInvoiceNotifyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDriverInvoiceNotify, data), nil
}

// NewInvoiceOverdueScanTask constructs the overdue-scan task. The payload is
// empty; the scan covers all carriers.
func NewInvoiceOverdueScanTask() *asynq.Task {
	return asynq.NewTask(TaskInvoiceOverdueScan, nil)
}

// InvoiceOverdueNotifyPayload identifies the past-due invoice to announce.
type InvoiceOverdueNotifyPayload struct {
	CarrierID    string    `json:"carrierId"`
	InvoiceID    string    `json:"invoiceId"`
	Number       string    `json:"number"`
	CustomerName string    `json:"customerName"`
	Remaining    string    `json:"remaining"`
	DueDate      time.Time `json:"dueDate"`
}

// NewInvoiceOverdueNotifyTask constructs the payment-status notification task.
func NewInvoiceOverdueNotifyTask(payload InvoiceOverdueNotifyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInvoiceOverdueNotify, data), nil
}
