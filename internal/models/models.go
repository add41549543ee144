package models

type AuthorizationRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password"`
}

type BalanceResponse struct {
	XP    int `json:"xp"`
	Level int `json:"level"`
}

type RequestResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Style       string `json:"style"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	Price       string `json:"price"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type SubmitResponse struct {
	Request        RequestResponse      `json:"request"`
	Attachments    []AttachmentResponse `json:"attachments,omitempty"`
	UploadFailures []UploadFailure      `json:"upload_failures,omitempty"`
	XPAwarded      int                  `json:"xp_awarded"`
}

type AttachmentResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

type UploadFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type AttachResponse struct {
	Attachments    []AttachmentResponse `json:"attachments"`
	UploadFailures []UploadFailure      `json:"upload_failures,omitempty"`
}

type LineItemRequest struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	ItemType    string  `json:"item_type,omitempty"`
}

type CreateInvoiceRequest struct {
	RequestID      string            `json:"request_id,omitempty"`
	Title          string            `json:"title"`
	Description    string            `json:"description,omitempty"`
	TaxRate        float64           `json:"tax_rate"`
	DiscountAmount float64           `json:"discount_amount"`
	DueDate        string            `json:"due_date,omitempty"`
	Items          []LineItemRequest `json:"items"`
}

type InvoiceResponse struct {
	ID             string `json:"id"`
	Number         string `json:"invoice_number"`
	Title          string `json:"title"`
	Subtotal       string `json:"subtotal"`
	TaxRate        string `json:"tax_rate"`
	TaxAmount      string `json:"tax_amount"`
	DiscountAmount string `json:"discount_amount"`
	TotalAmount    string `json:"total_amount"`
	Status         string `json:"status"`
	DueDate        string `json:"due_date,omitempty"`
	SentAt         string `json:"sent_at,omitempty"`
	PaidAt         string `json:"paid_at,omitempty"`
	PaymentMethod  string `json:"payment_method,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}

type LineItemResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TotalPrice  string `json:"total_price"`
	ItemType    string `json:"item_type"`
}

type PaymentResponse struct {
	ID                    string `json:"id"`
	Amount                string `json:"amount"`
	Method                string `json:"method"`
	ExternalTransactionID string `json:"external_transaction_id,omitempty"`
	Status                string `json:"status"`
	ProcessedAt           string `json:"processed_at,omitempty"`
}

type InvoiceDetailResponse struct {
	Invoice  InvoiceResponse    `json:"invoice"`
	Items    []LineItemResponse `json:"items"`
	Payments []PaymentResponse  `json:"payments"`
}

type PayInvoiceRequest struct {
	Method                string  `json:"method"`
	ExternalOrderID       string  `json:"external_order_id,omitempty"`
	ExternalTransactionID string  `json:"external_transaction_id,omitempty"`
	Amount                float64 `json:"amount"`
}

type CheckoutResponse struct {
	InvoiceID  string `json:"invoice_id"`
	ApproveURL string `json:"approve_url"`
}

type CaptureRequest struct {
	InvoiceID             string  `json:"invoice_id"`
	ExternalOrderID       string  `json:"external_order_id"`
	ExternalTransactionID string  `json:"external_transaction_id"`
	Amount                float64 `json:"amount"`
}

type PaymentSignalRequest struct {
	InvoiceID string `json:"invoice_id"`
}

type CaptureResponse struct {
	Outcome string          `json:"outcome"`
	Message string          `json:"message"`
	Invoice InvoiceResponse `json:"invoice"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
