// internal/core/services/commands.go
package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ammerola/storefront/internal/core/domain"
)

// Region is the part of the page a command comes from
type Region string

const (
	RegionInventory Region = "inventory"
	RegionCart      Region = "cart"
	RegionCheckout  Region = "checkout"
	RegionPage      Region = "page"
)

// Action is what the user did within a region
type Action string

const (
	ActionIncrement Action = "increment"
	ActionDecrement Action = "decrement"
	ActionAdd       Action = "add"
	ActionEdit      Action = "edit"
	ActionSave      Action = "save"
	ActionDelete    Action = "delete"
	ActionSubmit    Action = "submit"
	ActionRefresh   Action = "refresh"
)

// Command is a single user action addressed to the controller
type Command struct {
	Region Region `json:"region"`
	Action Action `json:"action"`
	ItemID int    `json:"id,omitempty"`
}

func (c Command) String() string {
	return string(c.Region) + "/" + string(c.Action)
}

// Outcome is what a dispatched command left behind
type Outcome struct {
	Command  Command                `json:"command"`
	Session  *domain.Session        `json:"-"`
	Checkout *domain.CheckoutResult `json:"checkout,omitempty"`
	Receipt  *domain.Receipt        `json:"receipt,omitempty"`
	Notice   *domain.Notice         `json:"notice,omitempty"`
}

type commandKey struct {
	region Region
	action Action
}

type commandSpec struct {
	handler commandHandler
	// needsItem commands carry a positive item id
	needsItem bool
	// mutates commands reach the backend and run under the controller lock
	mutates bool
}

// dispatchTable maps every (region, action) pair the page can send to its handler
var dispatchTable = map[commandKey]commandSpec{
	{RegionInventory, ActionIncrement}: {handler: (*Controller).incrementPending, needsItem: true},
	{RegionInventory, ActionDecrement}: {handler: (*Controller).decrementPending, needsItem: true},
	{RegionInventory, ActionAdd}:       {handler: (*Controller).addToCart, needsItem: true, mutates: true},
	{RegionCart, ActionEdit}:           {handler: (*Controller).beginEdit, needsItem: true},
	{RegionCart, ActionIncrement}:      {handler: (*Controller).incrementEdit, needsItem: true},
	{RegionCart, ActionDecrement}:      {handler: (*Controller).decrementEdit, needsItem: true},
	{RegionCart, ActionSave}:           {handler: (*Controller).saveEdit, needsItem: true, mutates: true},
	{RegionCart, ActionDelete}:         {handler: (*Controller).deleteLine, needsItem: true, mutates: true},
	{RegionCheckout, ActionSubmit}:     {handler: (*Controller).checkout, mutates: true},
	{RegionPage, ActionRefresh}:        {handler: (*Controller).refresh, mutates: true},
}

// Commands lists the supported commands, used by the page to build its forms
func Commands() []Command {
	cmds := make([]Command, 0, len(dispatchTable))
	for key := range dispatchTable {
		cmds = append(cmds, Command{Region: key.region, Action: key.action})
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].String() < cmds[j].String() })
	return cmds
}

// ParseCommand builds a command from its textual parts. The id may be empty
// for commands that do not address an item.
func ParseCommand(region, action, id string) (Command, error) {
	cmd := Command{
		Region: Region(strings.ToLower(strings.TrimSpace(region))),
		Action: Action(strings.ToLower(strings.TrimSpace(action))),
	}

	entry, ok := dispatchTable[commandKey{cmd.Region, cmd.Action}]
	if !ok {
		return cmd, &CommandError{Command: cmd, Err: ErrUnknownCommand}
	}

	id = strings.TrimSpace(id)
	if id == "" {
		if entry.needsItem {
			return cmd, &CommandError{Command: cmd, Err: fmt.Errorf("%w: missing id", ErrInvalidCommand)}
		}
		return cmd, nil
	}

	n, err := strconv.Atoi(id)
	if err != nil || n <= 0 {
		return cmd, &CommandError{Command: cmd, Err: fmt.Errorf("%w: bad id %q", ErrInvalidCommand, id)}
	}
	cmd.ItemID = n

	return cmd, nil
}
