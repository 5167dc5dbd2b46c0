package actor

import "fmt"

// Role is the closed enumeration of actor roles. A role is fixed at
// registration and never changes.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleOperator Role = "OPERATOR"
	RoleCarrier  Role = "CARRIER"
	RoleDriver   Role = "DRIVER"
)

// IsValid returns true if the role is a recognized actor role.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleOperator, RoleCarrier, RoleDriver:
		return true
	}
	return false
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// ParseRole converts a string to a Role, returning an error if invalid.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role: %s", s)
	}
	return role, nil
}

// CarrierStatus is the approval state of a carrier account. Only APPROVED
// carriers may create bookings.
type CarrierStatus string

const (
	CarrierPending   CarrierStatus = "PENDING"
	CarrierApproved  CarrierStatus = "APPROVED"
	CarrierRejected  CarrierStatus = "REJECTED"
	CarrierSuspended CarrierStatus = "SUSPENDED"
)

// IsValid returns true if the status is a recognized carrier status.
func (s CarrierStatus) IsValid() bool {
	switch s {
	case CarrierPending, CarrierApproved, CarrierRejected, CarrierSuspended:
		return true
	}
	return false
}

// ParseCarrierStatus converts a string to a CarrierStatus.
func ParseCarrierStatus(s string) (CarrierStatus, error) {
	status := CarrierStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid carrier status: %s", s)
	}
	return status, nil
}

// DriverStatus is the activity state of a driver account.
type DriverStatus string

const (
	DriverActive    DriverStatus = "ACTIVE"
	DriverSuspended DriverStatus = "SUSPENDED"
)
