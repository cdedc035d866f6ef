package gateway

import (
	"net/http"
	"strings"

	cardpointe "github.com/DanielPopoola/cardpointe-go"
	"github.com/DanielPopoola/cardpointe-go/internal/endpoint"
	"github.com/DanielPopoola/cardpointe-go/payload"
)

const (
	ServiceInquireMerchant  = "inquireMerchant"
	ServiceAuthorization    = "authorization"
	ServiceCapture          = "capture"
	ServiceInquire          = "inquire"
	ServiceInquireByOrderID = "inquireByOrderId"
	ServiceVoid             = "void"
	ServiceVoidByOrderID    = "voidByOrderId"
	ServiceRefund           = "refund"
	ServiceProfile          = "profile"
	ServiceSignature        = "signature"
	ServiceBIN              = "bin"
	ServiceFunding          = "funding"
)

const restPath = "/cardconnect/rest"

var registry = endpoint.NewRegistry(true,
	endpoint.Descriptor{
		Name: ServiceInquireMerchant,
		Routes: map[cardpointe.Action]endpoint.Route{
			cardpointe.ActionGet: {Method: http.MethodGet, Path: restPath + "/inquireMerchant/{merchid}"},
		},
	},
	endpoint.Descriptor{
		Name: ServiceAuthorization,
		Routes: map[cardpointe.Action]endpoint.Route{
			cardpointe.ActionCreate: {Method: http.MethodPost, Path: restPath + "/auth", Check: checkApproved},
		},
	},
	endpoint.Descriptor{
		Name: ServiceCapture,
		Routes: map[cardpointe.Action]endpoint.Route{
			cardpointe.ActionCreate: {Method: http.MethodPost, Path: restPath + "/capture", Check: checkApproved},
		},
	},
	endpoint.Descriptor{
		Name: ServiceInquire,
		Routes: map[cardpointe.Action]endpoint.Route{
			cardpointe.ActionGet: {Method: http.MethodGet, Path: restPath + "/inquire/{retref}/{merchid}", Check: checkInquiry},
		},
	},
	endpoint.Descriptor{
		Name: ServiceInquireByOrderID,
		Routes: map[cardpointe.Action]endpoint.Route{
			cardpointe.ActionGet: {Method: http.MethodGet, Path: restPath + "/inquireByOrderid/{orderid}/{merchid}/{set?}", Check: checkInquiry},
		},
	},
	endpoint.Descriptor{
		Name: ServiceVoid,
		Routes: map[cardpointe.Action]endpoint.Route{
			cardpointe.ActionCreate: {Method: http.MethodPost, Path: restPath + "/void", Check: checkApproved},
		},
	},
	endpoint.Descriptor{
		Name: ServiceVoidByOrderID,
		Routes: map[cardpointe.Action]endpoint.Route{
			cardpointe.ActionCreate: {Method: http.MethodPost, Path: restPath + "/voidByOrderId", Check: checkApproved},
		},
	},
	endpoint.Descriptor{
		Name: ServiceRefund,
		Routes: map[cardpointe.Action]endpoint.Route{
			cardpointe.ActionCreate: {Method: http.MethodPost, Path: restPath + "/refund", Check: checkApproved},
		},
	},
	endpoint.Descriptor{
		Name: ServiceProfile,
		Routes: map[cardpointe.Action]endpoint.Route{
			cardpointe.ActionGet: {
				Method:  http.MethodGet,
				Path:    restPath + "/profile/{profileid}/{acctid?}/{merchid}",
				Prepare: splitProfile,
				Check:   checkProfileLookup,
			},
			cardpointe.ActionCreate: {
				Method:  http.MethodPost,
				Path:    restPath + "/profile",
				Prepare: prepareProfileCreate,
				Check:   checkApproved,
			},
			cardpointe.ActionUpdate: {
				Method:  http.MethodPut,
				Path:    restPath + "/profile",
				Prepare: prepareProfileUpdate,
				Check:   checkApproved,
			},
			cardpointe.ActionDelete: {
				Method:  http.MethodDelete,
				Path:    restPath + "/profile/{profileid}/{acctid?}/{merchid}",
				Prepare: splitProfile,
				Check:   checkApproved,
			},
		},
	},
	endpoint.Descriptor{
		Name: ServiceSignature,
		Routes: map[cardpointe.Action]endpoint.Route{
			cardpointe.ActionCreate: {Method: http.MethodPost, Path: restPath + "/sigcap", Check: checkSignature},
		},
	},
	endpoint.Descriptor{
		Name: ServiceBIN,
		Routes: map[cardpointe.Action]endpoint.Route{
			cardpointe.ActionGet: {Method: http.MethodGet, Path: restPath + "/bin/{merchid}/{token}", Check: checkBIN},
		},
	},
	endpoint.Descriptor{
		Name: ServiceFunding,
		Routes: map[cardpointe.Action]endpoint.Route{
			cardpointe.ActionGet: {Method: http.MethodGet, Path: restPath + "/funding", Check: checkFunding},
		},
	},
)

// splitProfile turns "profileid/acctid" into the two path variables. The
// account id may be absent, which selects every account of the profile.
func splitProfile(p payload.Payload) (payload.Payload, error) {
	profile, ok := p.GetString("profile")
	if !ok || profile == "" {
		return p, &cardpointe.ValidationError{Field: "profile", Message: "profile is required"}
	}
	profileID, accountID, _ := strings.Cut(profile, "/")
	if strings.Contains(accountID, "/") {
		return p, &cardpointe.ValidationError{Field: "profile", Message: "expected <profileid>/<acctid>"}
	}
	p.Delete("profile")
	p.Set("profileid", profileID)
	p.Set("acctid", accountID)
	return p, nil
}

func prepareProfileCreate(p payload.Payload) (payload.Payload, error) {
	if profile, ok := p.GetString("profile"); ok && strings.Contains(profile, "/") {
		return p, &cardpointe.ValidationError{Field: "profile", Message: "profile id must not include an account id"}
	}
	return p, nil
}

// prepareProfileUpdate requires an account id so an update cannot silently
// create a new profile.
func prepareProfileUpdate(p payload.Payload) (payload.Payload, error) {
	profile, ok := p.GetString("profile")
	if !ok || !strings.Contains(profile, "/") {
		return p, &cardpointe.ValidationError{Field: "profile", Message: "profile must include an account id"}
	}
	p.Set("profileupdate", "Y")
	return p, nil
}

func checkApproved(resp *cardpointe.Response) (string, bool) {
	if resp.String("respstat") != string(StatusApproved) {
		return resp.String("resptext"), true
	}
	return "", false
}

// checkInquiry accepts declined transactions: a body carrying the account is
// a valid lookup result whatever its status.
func checkInquiry(resp *cardpointe.Response) (string, bool) {
	if resp.Body == nil || len(resp.Items) > 1 {
		return "", false
	}
	if !resp.Has("account") && resp.String("respstat") != string(StatusApproved) {
		return resp.String("resptext"), true
	}
	return "", false
}

func checkProfileLookup(resp *cardpointe.Response) (string, bool) {
	if resp.Has("respstat") && resp.String("respstat") != string(StatusApproved) {
		return resp.String("resptext"), true
	}
	return "", false
}

func checkSignature(resp *cardpointe.Response) (string, bool) {
	if resp.String("respcode") != "02" {
		return resp.String("resptext"), true
	}
	return "", false
}

func checkBIN(resp *cardpointe.Response) (string, bool) {
	if success, _ := resp.Body["success"].(bool); !success {
		return resp.String("errormsg"), true
	}
	return "", false
}

func checkFunding(resp *cardpointe.Response) (string, bool) {
	if resp.Has("errormsg") {
		return resp.String("errormsg"), true
	}
	return "", false
}
