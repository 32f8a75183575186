package listeners

import (
	"github.com/gobuffalo/events"

	"github.com/silinternational/assetcover-api/domain"
	"github.com/silinternational/assetcover-api/log"
)

type apiListener struct {
	name     string
	listener func(events.Event)
}

//
// Register new listener functions here.  Remember, though, that these groupings just
// describe what we want.  They don't make it happen this way. The listeners
// themselves still need to verify the event kind
//
var apiListeners = map[string][]apiListener{
	domain.EventApiPolicyPurchased: {
		{
			name:     "policy-purchased",
			listener: logLifecycleEvent,
		},
	},
	domain.EventApiPolicyRenewed: {
		{
			name:     "policy-renewed",
			listener: logLifecycleEvent,
		},
	},
	domain.EventApiPolicyCancelled: {
		{
			name:     "policy-cancelled",
			listener: logLifecycleEvent,
		},
	},
	domain.EventApiClaimSubmitted: {
		{
			name:     "claim-submitted",
			listener: logLifecycleEvent,
		},
	},
	domain.EventApiClaimApproved: {
		{
			name:     "claim-approved",
			listener: logLifecycleEvent,
		},
	},
	domain.EventApiClaimRejected: {
		{
			name:     "claim-rejected",
			listener: logLifecycleEvent,
		},
	},
	domain.EventApiClaimPaid: {
		{
			name:     "claim-paid",
			listener: logLifecycleEvent,
		},
	},
	domain.EventApiUserFlagged: {
		{
			name:     "user-flagged",
			listener: logLifecycleEvent,
		},
	},
	domain.EventApiUserUnflagged: {
		{
			name:     "user-unflagged",
			listener: logLifecycleEvent,
		},
	},
}

// RegisterListeners registers all the listeners to be used by the app
func RegisterListeners() {
	for _, listeners := range apiListeners {
		for _, l := range listeners {
			if _, err := events.NamedListen(l.name, l.listener); err != nil {
				log.Errorf("failed registering listener %s: %s", l.name, err)
			}
		}
	}
}

// logLifecycleEvent writes an audit line for a policy, claim, or fraud flag
// lifecycle event. The payload carries the subject's identifiers.
func logLifecycleEvent(e events.Event) {
	defer panicRecover(e.Kind)

	fields := map[string]any{"event_kind": e.Kind}
	for k, v := range e.Payload {
		fields[k] = v
	}
	log.WithFields(fields).Info(e.Message)
}

func panicRecover(name string) {
	if err := recover(); err != nil {
		log.Errorf("panic occurred in %s: %s", name, err)
	}
}
