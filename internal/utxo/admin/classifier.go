// Package admin classifies administrative transactions: thread outputs that
// issue or destroy funds and manage the protocol's privileged keys.
package admin

import (
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/chain"
)

// Thread is the admin thread a transaction advances.
type Thread int

const (
	ThreadNone Thread = iota
	ThreadIssue
	ThreadProvision
	ThreadRoot
)

func (t Thread) String() string {
	switch t {
	case ThreadIssue:
		return "issue_thread_transactions"
	case ThreadProvision:
		return "provisioning_transactions"
	case ThreadRoot:
		return "root_thread"
	default:
		return "not_admin"
	}
}

// Action is the concrete privileged action of an admin transaction.
type Action int

const (
	ActionNone Action = iota
	ActionIssue
	ActionDestroy
	ActionIssueKeyAdd
	ActionIssueKeyRevoke
	ActionProvisionKeyAdd
	ActionProvisionKeyRevoke
	ActionValidateKeyAdd
	ActionValidateKeyRevoke
	ActionASPKeyAdd
	ActionASPKeyRevoke
)

var actionNames = map[Action]string{
	ActionIssue:              "issue_rmg",
	ActionDestroy:            "destroy_rmg",
	ActionIssueKeyAdd:        "issue_key_add",
	ActionIssueKeyRevoke:     "issue_key_revoke",
	ActionProvisionKeyAdd:    "provision_key_add",
	ActionProvisionKeyRevoke: "provision_key_revoke",
	ActionValidateKeyAdd:     "validate_key_add",
	ActionValidateKeyRevoke:  "validate_key_revoke",
	ActionASPKeyAdd:          "asp_key_add",
	ActionASPKeyRevoke:       "asp_key_revoke",
}

func (a Action) String() string {
	return actionNames[a]
}

var threadPrefixes = map[string]Thread{
	"52bb": ThreadIssue,
	"51bb": ThreadProvision,
	"00bb": ThreadRoot,
}

// Key-management opcodes, keyed by the first data byte of the operation output.
var keyActions = map[Thread]map[byte]Action{
	ThreadRoot: {
		0x01: ActionIssueKeyAdd,
		0x02: ActionIssueKeyRevoke,
		0x03: ActionProvisionKeyAdd,
		0x04: ActionProvisionKeyRevoke,
	},
	ThreadProvision: {
		0x11: ActionValidateKeyAdd,
		0x12: ActionValidateKeyRevoke,
		0x21: ActionASPKeyAdd,
		0x22: ActionASPKeyRevoke,
	},
}

// Classification is the result of Classify. Amount is only set for issue
// thread transactions.
type Classification struct {
	Thread Thread
	Action Action
	Amount btcutil.Amount
}

// IsAdmin reports whether the transaction belongs to an admin thread.
func (c Classification) IsAdmin() bool {
	return c.Thread != ThreadNone
}

// ThreadOf maps the leading two bytes of a hex script to its admin thread.
func ThreadOf(scriptHex string) Thread {
	if len(scriptHex) < 4 {
		return ThreadNone
	}
	return threadPrefixes[strings.ToLower(scriptHex[:4])]
}

// Resolve maps a thread and a key-management opcode to an action.
func Resolve(thread Thread, opcode byte) Action {
	return keyActions[thread][opcode]
}

// Classify inspects the outputs of a transaction. Transactions whose first
// output is not an admin thread output classify as ThreadNone.
func Classify(outputs []chain.Output) Classification {
	if len(outputs) == 0 {
		return Classification{}
	}
	thread := ThreadOf(outputs[0].Script)
	c := Classification{Thread: thread}

	switch thread {
	case ThreadIssue:
		if len(outputs) < 2 {
			return c
		}
		for _, out := range outputs[1:] {
			c.Amount += out.Satoshis
		}
		c.Action = ActionIssue
		if isNullData(outputs[1].Script) {
			c.Action = ActionDestroy
		}
	case ThreadRoot, ThreadProvision:
		if len(outputs) < 2 {
			return c
		}
		if op, ok := leadingOpcode(outputs[1].ScriptAsm); ok {
			c.Action = Resolve(thread, op)
		}
	}
	return c
}

func isNullData(scriptHex string) bool {
	script, err := hex.DecodeString(scriptHex)
	if err != nil {
		return false
	}
	return txscript.GetScriptClass(script) == txscript.NullDataTy
}

// leadingOpcode returns the first byte of the first data push in asm,
// skipping a leading OP_RETURN.
func leadingOpcode(asm string) (byte, bool) {
	fields := strings.Fields(asm)
	if len(fields) > 0 && fields[0] == "OP_RETURN" {
		fields = fields[1:]
	}
	if len(fields) == 0 || len(fields[0]) < 2 {
		return 0, false
	}
	b, err := hex.DecodeString(fields[0][:2])
	if err != nil {
		return 0, false
	}
	return b[0], true
}
