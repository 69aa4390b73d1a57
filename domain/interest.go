package domain

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// InterestKind is the dimension an Interest filters on.
type InterestKind string

const (
	InterestFullRegistry InterestKind = "full"
	InterestApplication  InterestKind = "application"
	InterestVIP          InterestKind = "vip"
	InterestSecureVIP    InterestKind = "secure_vip"
	InterestInstance     InterestKind = "instance"
)

// MatchOperator says how Pattern is compared.
type MatchOperator string

const (
	MatchEquals MatchOperator = "equals"
	MatchLike   MatchOperator = "like" // Pattern is a regular expression
)

// Interest is a client-declared filter over the registry stream.
type Interest struct {
	Kind     InterestKind
	Pattern  string
	Operator MatchOperator
}

// FullRegistryInterest matches every instance.
func FullRegistryInterest() Interest {
	return Interest{Kind: InterestFullRegistry}
}

// ForApplication matches instances of one application.
func ForApplication(appName string) Interest {
	return Interest{Kind: InterestApplication, Pattern: strings.ToUpper(appName), Operator: MatchEquals}
}

// ForVIP matches instances that expose the given VIP address.
func ForVIP(vip string) Interest {
	return Interest{Kind: InterestVIP, Pattern: vip, Operator: MatchEquals}
}

// ForInstance matches one instance id.
func ForInstance(id string) Interest {
	return Interest{Kind: InterestInstance, Pattern: id, Operator: MatchEquals}
}

// Validate checks the interest is well formed.
func (i Interest) Validate() error {
	switch i.Kind {
	case InterestFullRegistry:
		return nil
	case InterestApplication, InterestVIP, InterestSecureVIP, InterestInstance:
	default:
		return fmt.Errorf("unknown interest kind %q", i.Kind)
	}
	if i.Pattern == "" {
		return fmt.Errorf("interest %s requires a pattern", i.Kind)
	}
	if i.Operator == MatchLike {
		if _, err := compileLike(i.Pattern); err != nil {
			return fmt.Errorf("interest %s: invalid pattern: %w", i.Kind, err)
		}
	}
	return nil
}

// Matches reports whether the instance falls into the interest.
func (i Interest) Matches(in *InstanceInfo) bool {
	if in == nil {
		return false
	}
	var value string
	switch i.Kind {
	case InterestFullRegistry:
		return true
	case InterestApplication:
		value = in.AppName
	case InterestVIP:
		value = in.VIPAddress
	case InterestSecureVIP:
		value = in.SecureVIPAddress
	case InterestInstance:
		value = in.InstanceID
	default:
		return false
	}
	if i.Operator == MatchLike {
		re, err := compileLike(i.Pattern)
		return err == nil && re.MatchString(value)
	}
	if i.Kind == InterestApplication {
		return strings.EqualFold(value, i.Pattern)
	}
	return value == i.Pattern
}

// maxLikePatterns bounds the compiled pattern cache; patterns beyond it are compiled per call.
const maxLikePatterns = 1024

var likePatterns = struct {
	sync.RWMutex
	m map[string]*regexp.Regexp
}{m: make(map[string]*regexp.Regexp)}

// compileLike returns the compiled form of a like pattern, compiling each pattern once.
func compileLike(pattern string) (*regexp.Regexp, error) {
	likePatterns.RLock()
	re, ok := likePatterns.m[pattern]
	likePatterns.RUnlock()
	if ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	likePatterns.Lock()
	if cached, ok := likePatterns.m[pattern]; ok {
		re = cached
	} else if len(likePatterns.m) < maxLikePatterns {
		likePatterns.m[pattern] = re
	}
	likePatterns.Unlock()
	return re, nil
}

func (i Interest) String() string {
	if i.Kind == InterestFullRegistry {
		return string(i.Kind)
	}
	return fmt.Sprintf("%s:%s:%s", i.Kind, i.Operator, i.Pattern)
}

// Interests is a union of interests.
type Interests []Interest

// Matches reports whether any member matches.
func (is Interests) Matches(in *InstanceInfo) bool {
	for _, i := range is {
		if i.Matches(in) {
			return true
		}
	}
	return false
}
