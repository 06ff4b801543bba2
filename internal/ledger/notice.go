package ledger

// NoticeKind distinguishes the user-facing notices the ledger emits.
type NoticeKind string

const (
	NoticeSuccess         NoticeKind = "success"
	NoticeValidationError NoticeKind = "validation_error"
)

// Notice is a typed user-facing notification. The ledger only produces the
// kind and message; rendering is owned by the caller.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Notice messages shown to the user.
const (
	MsgInvoiceSaved        = "Invoice saved successfully"
	MsgCustomerNameMissing = "Please enter a customer name"
	MsgItemMissing         = "Please add at least one item"
)
