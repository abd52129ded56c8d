package config

// validConfigYAML is a minimal valid configuration for testing.
const validConfigYAML = `
apiVersion: avaweb.io/v1
kind: Application
metadata:
  name: test-app
spec:
  server:
    port: 8080
  routes:
    - path: /greeting/{id}
      controller: /greeting
      action: show
      methods: [GET, POST]
    - path: /{controller}/{action}/{id}
`

// invalidConfigYAML fails validation.
const invalidConfigYAML = `
apiVersion: avaweb.io/v1
kind: Application
metadata:
  name: test-app
spec:
  server:
    port: -1
`
