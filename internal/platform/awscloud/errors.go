package awscloud

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	asgtypes "github.com/aws/aws-sdk-go-v2/service/autoscaling/types"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/aws/smithy-go"
)

// subnetIDPattern matches subnet-id-shaped tokens inside provider error
// text. The insufficient-space rejection names the offending subnet only
// in its free-text message.
var subnetIDPattern = regexp.MustCompile(`subnet-[0-9a-f]+`)

// NotFoundError reports that a named resource does not exist. It is a
// hard stop for the deployment, never retried.
type NotFoundError struct {
	Resource string
	Name     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Name)
}

// InsufficientAddressSpaceError reports that the provider rejected an
// operation because a supplied subnet lacks enough free addresses.
// SubnetIDs holds the offending subnets parsed from the error text; it is
// empty when the message named none, in which case the caller must treat
// its whole subnet set as suspect.
type InsufficientAddressSpaceError struct {
	SubnetIDs []string
	Message   string
}

func (e *InsufficientAddressSpaceError) Error() string {
	if len(e.SubnetIDs) > 0 {
		return fmt.Sprintf("insufficient address space in %s: %s", strings.Join(e.SubnetIDs, ", "), e.Message)
	}
	return fmt.Sprintf("insufficient address space: %s", e.Message)
}

// IsAlreadyExists checks if an error indicates a duplicate-name creation
// attempt. These are recovered locally by fetching the existing resource.
func IsAlreadyExists(err error) bool {
	if err == nil {
		return false
	}

	var dupLB *elbtypes.DuplicateLoadBalancerNameException
	var dupTG *elbtypes.DuplicateTargetGroupNameException
	var dupListener *elbtypes.DuplicateListenerException
	var dupASG *asgtypes.AlreadyExistsFault
	if errors.As(err, &dupLB) || errors.As(err, &dupTG) ||
		errors.As(err, &dupListener) || errors.As(err, &dupASG) {
		return true
	}

	return isAPIErrorCode(err,
		"DuplicateLoadBalancerName",
		"DuplicateTargetGroupName",
		"DuplicateListener",
		"AlreadyExists")
}

// IsNotFound checks if an error indicates an absent resource.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	var notFound *NotFoundError
	var lbNotFound *elbtypes.LoadBalancerNotFoundException
	var tgNotFound *elbtypes.TargetGroupNotFoundException
	if errors.As(err, &notFound) || errors.As(err, &lbNotFound) || errors.As(err, &tgNotFound) {
		return true
	}

	// EC2 has no typed not-found errors; it reports codes such as
	// InvalidVpcID.NotFound and InvalidLaunchTemplateId.NotFound.
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return strings.Contains(apiErr.ErrorCode(), "NotFound")
	}
	return false
}

// AsInsufficientAddressSpace classifies an error as an
// insufficient-address-space rejection. The structured error code is
// checked first; the known message shapes ("Not enough IP space",
// "at least 8 free IP addresses") confirm the condition before the
// fragile text parse for subnet IDs runs.
func AsInsufficientAddressSpace(err error) (*InsufficientAddressSpaceError, bool) {
	if err == nil {
		return nil, false
	}

	var spaceErr *InsufficientAddressSpaceError
	if errors.As(err, &spaceErr) {
		return spaceErr, true
	}

	var msg string
	var invalidSubnet *elbtypes.InvalidSubnetException
	var apiErr smithy.APIError
	switch {
	case errors.As(err, &invalidSubnet):
		msg = invalidSubnet.ErrorMessage()
	case errors.As(err, &apiErr) && apiErr.ErrorCode() == "InvalidSubnet":
		msg = apiErr.ErrorMessage()
	default:
		return nil, false
	}

	if !strings.Contains(msg, "Not enough IP space") &&
		!strings.Contains(msg, "free IP addresses") {
		return nil, false
	}

	return &InsufficientAddressSpaceError{
		SubnetIDs: dedupe(subnetIDPattern.FindAllString(msg, -1)),
		Message:   msg,
	}, true
}

// isAPIErrorCode checks if the error is an AWS API error with one of the
// given codes.
func isAPIErrorCode(err error, codes ...string) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.ErrorCode() == code {
			return true
		}
	}
	return false
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
