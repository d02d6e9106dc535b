package topology

// Default deployment of the document-collaboration platform. The database
// and the document server are roots, the reverse proxy sits on both, the
// router sits on the proxy, and every application service sits on the
// router. Container names are the service name with a configurable prefix.

// DefaultServices returns the built-in service set with container names
// derived from prefix.
func DefaultServices(prefix string) []Service {
	svc := func(name string, group Group, port int, deps ...string) Service {
		return Service{
			Name:      name,
			Container: prefix + name,
			Group:     group,
			DependsOn: deps,
			HTTPPort:  port,
		}
	}

	appDeps := []string{"router"}

	services := []Service{
		svc("mysql-server", GroupInfrastructure, 0),
		svc("document-server", GroupInfrastructure, 80),
		svc("proxy", GroupInfrastructure, 8081, "mysql-server", "document-server"),
		svc("router", GroupInfrastructure, 8092, "proxy"),

		svc("api", GroupAPI, 5000, appDeps...),
		svc("api-system", GroupAPI, 5010, appDeps...),

		svc("studio", GroupFrontend, 5003, appDeps...),
		svc("files", GroupFrontend, 5007, appDeps...),
		svc("people", GroupFrontend, 5004, appDeps...),
		svc("crm", GroupFrontend, 5021, appDeps...),
		svc("projects", GroupFrontend, 5020, appDeps...),

		svc("backup", GroupBackend, 5012, appDeps...),
		svc("mail", GroupBackend, 5022, appDeps...),
		svc("notify", GroupBackend, 5005, appDeps...),
		svc("socket", GroupBackend, 9899, appDeps...),
		svc("ssoauth", GroupBackend, 9834, appDeps...),
		svc("telegram-reports", GroupBackend, 5031, appDeps...),
		svc("urlshortener", GroupBackend, 9999, appDeps...),
		svc("webhooks", GroupBackend, 5032, appDeps...),
	}

	return services
}

// DefaultDefinition wraps DefaultServices in a Definition, appending any
// extra services from configuration.
func DefaultDefinition(prefix string, extra []Service) Definition {
	return Definition{Services: append(DefaultServices(prefix), extra...)}
}
