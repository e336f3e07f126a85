package session

import (
	"fmt"
	"net/url"
)

// Provider identifies a federated login provider supported by the backend.
type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
	ProviderLinkedIn Provider = "linkedin"
	ProviderGitHub   Provider = "github"
)

var providerNames = map[Provider]string{
	ProviderGoogle:   "Google",
	ProviderFacebook: "Facebook",
	ProviderLinkedIn: "LinkedIn",
	ProviderGitHub:   "GitHub",
}

// DisplayName returns the provider's human-readable name.
func (p Provider) DisplayName() string {
	if name, ok := providerNames[p]; ok {
		return name
	}
	return string(p)
}

// FederatedLoginURL is the "initiate" half of federated login: it produces
// the backend redirect target that starts the provider's OAuth dance.
// Control then leaves this component entirely; the "complete" half is the
// Bootstrap of the next session, which picks up the credential the backend
// established during the callback.
func (m *Manager) FederatedLoginURL(provider Provider) (string, error) {
	m.ClearError()

	// The error message stays generic regardless of the underlying cause.
	generic := fmt.Sprintf("%s login failed", provider.DisplayName())

	if _, ok := providerNames[provider]; !ok {
		return "", m.fail(KindFederatedLoginFailed, nil, generic)
	}

	target, err := url.JoinPath(m.client.BaseURL(), "auth", string(provider))
	if err != nil {
		return "", m.fail(KindFederatedLoginFailed, nil, generic)
	}
	return target, nil
}
