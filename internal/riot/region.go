package riot

import (
	"fmt"
	"strings"
)

// Route is a Riot regional routing value
type Route string

const (
	RouteAmericas Route = "americas"
	RouteAsia     Route = "asia"
	RouteEurope   Route = "europe"
	RouteSEA      Route = "sea"
)

// platformRoutes maps platform ids and their short aliases to the match-v5 cluster
var platformRoutes = map[string]Route{
	"na1": RouteAmericas, "na": RouteAmericas,
	"br1": RouteAmericas, "br": RouteAmericas,
	"la1": RouteAmericas, "lan": RouteAmericas,
	"la2": RouteAmericas, "las": RouteAmericas,
	"kr": RouteAsia,
	"jp1": RouteAsia, "jp": RouteAsia,
	"euw1": RouteEurope, "euw": RouteEurope,
	"eun1": RouteEurope, "eune": RouteEurope,
	"tr1": RouteEurope, "tr": RouteEurope,
	"ru": RouteEurope,
	"me1": RouteEurope, "me": RouteEurope,
	"oc1": RouteSEA, "oce": RouteSEA,
	"sg2": RouteSEA, "sg": RouteSEA,
	"tw2": RouteSEA, "tw": RouteSEA,
	"vn2": RouteSEA, "vn": RouteSEA,
	"ph2": RouteSEA, "ph": RouteSEA,
	"th2": RouteSEA, "th": RouteSEA,
}

// Regions lists the short region names offered to users
var Regions = []string{"na", "euw", "eune", "kr", "jp", "br", "lan", "las", "oce", "tr", "ru", "me", "sg", "tw", "vn"}

// MatchRoute returns the regional cluster serving match-v5 for a region
func MatchRoute(region string) (Route, error) {
	route, ok := platformRoutes[strings.ToLower(strings.TrimSpace(region))]
	if !ok {
		return "", fmt.Errorf("unknown region: %q", region)
	}
	return route, nil
}

// AccountRoute returns the cluster serving account-v1, which has no sea cluster
func AccountRoute(region string) (Route, error) {
	route, err := MatchRoute(region)
	if err != nil {
		return "", err
	}
	if route == RouteSEA {
		return RouteAsia, nil
	}
	return route, nil
}
