package gen

// Field and slot names of the editor block schemas.
const (
	SlotInit            = "init_func"
	SlotBody            = "body_func"
	SlotAccountA        = "user_A"
	SlotAccountB        = "user_B"
	SlotAmount          = "money_num"
	SlotQueryAccount    = "user_Query"
	SlotDeleteAccount   = "user_Delete"
	SlotSetValue        = "VARIABLE"
	FieldInvokeSecurity = "check_invoke_security"
	FieldQuerySecurity  = "check_query_security"
	FieldDeleteSecurity = "check_delete_security"
	FieldSetSecurity    = "check_set_security"
	FieldSetName        = "data"

	SlotIf     = "IF"
	SlotDo     = "DO"
	SlotElse   = "ELSE"
	SlotTimes  = "TIMES"
	SlotCond   = "BOOL"
	SlotFrom   = "FROM"
	SlotTo     = "TO"
	SlotBy     = "BY"
	SlotA      = "A"
	SlotB      = "B"
	SlotValue  = "VALUE"
	SlotText   = "TEXT"
	FieldTimes = "TIMES"
	FieldMode  = "MODE"
	FieldVar   = "VAR"
	FieldOp    = "OP"
	FieldBool  = "BOOL"
	FieldNum   = "NUM"
	FieldText  = "TEXT"
)

// Compare operators of logic_compare
const (
	OpEq  = "EQ"
	OpNeq = "NEQ"
	OpLt  = "LT"
	OpLte = "LTE"
	OpGt  = "GT"
	OpGte = "GTE"
)

// Arithmetic operators of math_arithmetic
const (
	OpAdd      = "ADD"
	OpMinus    = "MINUS"
	OpMultiply = "MULTIPLY"
	OpDivide   = "DIVIDE"
	OpPower    = "POWER"
)

// ModeUntil makes controls_whileUntil loop while the condition is false
const ModeUntil = "UNTIL"

// CodeUnknownOperator flags an operator field outside the known set; the
// first operator of the set is emitted instead.
const CodeUnknownOperator = "unknown_operator"
