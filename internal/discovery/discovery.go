// Package discovery advertises the control API's HTTP port over mDNS/
// DNS-SD, the way doismellburning/samoyed advertises its KISS-over-TCP
// service, so a control client on the LAN can find a running engine
// without a fixed address or port.
package discovery

import (
	"context"
	"fmt"

	"github.com/brutella/dnssd"
)

// ServiceType is the DNS-SD service type this engine advertises itself
// under.
const ServiceType = "_trackd._tcp"

// Advertise registers and starts responding to mDNS/DNS-SD queries for the
// control API on port, under the given instance name. It runs the
// responder in a background goroutine and returns immediately; cancel ctx
// to stop advertising.
func Advertise(ctx context.Context, instanceName string, port int) error {
	cfg := dnssd.Config{
		Name: instanceName,
		Type: ServiceType,
		Port: port,
	}
	service, err := dnssd.NewService(cfg)
	if err != nil {
		return fmt.Errorf("discovery: new service: %w", err)
	}

	responder, err := dnssd.NewResponder()
	if err != nil {
		return fmt.Errorf("discovery: new responder: %w", err)
	}
	if _, err := responder.Add(service); err != nil {
		return fmt.Errorf("discovery: add service: %w", err)
	}

	go func() {
		_ = responder.Respond(ctx)
	}()
	return nil
}
