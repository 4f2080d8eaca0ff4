// Package models defines the response types for the read-only network
// API. All types are JSON-serializable.
package models

import "github.com/lirkwood/netdox-sub001/internal/netmodel"

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse represents a simple status response.
type StatusResponse struct {
	Status string `json:"status"`
}

// SummaryResponse gives the object counts and policy version of the
// loaded snapshot.
type SummaryResponse struct {
	Domains       int      `json:"domains"`
	IPs           int      `json:"ips"`
	Nodes         int      `json:"nodes"`
	Locations     []string `json:"locations"`
	PolicyVersion int64    `json:"policy_version"`
}

// DomainResponse is the full view of one domain.
type DomainResponse struct {
	Name       string          `json:"name"`
	Root       string          `json:"root,omitempty"`
	Role       string          `json:"role,omitempty"`
	Location   string          `json:"location,omitempty"`
	Node       string          `json:"node,omitempty"`
	PublicIPs  []netmodel.Link `json:"public_ips"`
	PrivateIPs []netmodel.Link `json:"private_ips"`
	CNAMEs     []netmodel.Link `json:"cnames"`
	ImpliedIPs []string        `json:"implied_ips,omitempty"`
	Subnets    []string        `json:"subnets,omitempty"`
}

// IPResponse is the full view of one address.
type IPResponse struct {
	Addr       string          `json:"addr"`
	Subnet     string          `json:"subnet"`
	Public     bool            `json:"public"`
	Location   string          `json:"location,omitempty"`
	NAT        string          `json:"nat,omitempty"`
	Node       string          `json:"node,omitempty"`
	PTR        []netmodel.Link `json:"ptr"`
	ImpliedPTR []string        `json:"implied_ptr,omitempty"`
}

// NodeResponse is the full view of one node.
type NodeResponse struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Location   string   `json:"location,omitempty"`
	PublicIPs  []string `json:"public_ips,omitempty"`
	PrivateIPs []string `json:"private_ips,omitempty"`
	Domains    []string `json:"domains,omitempty"`
}

// ListResponse wraps a list of names with its length.
type ListResponse struct {
	Count int      `json:"count"`
	Names []string `json:"names"`
}

// SubnetReportResponse summarises the private address space in use.
type SubnetReportResponse struct {
	Addresses int      `json:"addresses"`
	Collapsed []string `json:"collapsed"`
}
