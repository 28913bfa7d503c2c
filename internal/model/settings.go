package model

// Setting keys for the hub connection.  Admins edit these through the
// settings UI; the service reads them fresh on every hub call.
const (
	SettingHubIP    = "ajax_hub_ip"
	SettingHubUser  = "ajax_username"
	SettingHubPass  = "ajax_password"
)

// HubSettings is the assembled hub connection configuration.  Username and
// password are optional; basic auth is attached to hub requests only when
// both are present.
type HubSettings struct {
	IP       string
	Username string
	Password string
}

// HasAuth reports whether basic-auth credentials are fully configured.
func (s HubSettings) HasAuth() bool {
	return s.Username != "" && s.Password != ""
}
