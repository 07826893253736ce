package gate

// Action describes the kind of operation a user wants to perform.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"

	// Lifecycle actions on orders.
	ActionValidate Action = "validate"
	ActionProcess  Action = "process"
	ActionShip     Action = "ship"
	ActionDeliver  Action = "deliver"
	ActionCancel   Action = "cancel"

	// Settlement actions on royalties and commissions.
	ActionPay Action = "pay"
)
