package main

import (
	"context"
	"time"

	"github.com/lankagov/gnportal/internal/app"
)

// @title           GN Portal API
// @version         1.0
// @description     Citizen services of the Grama Niladhari divisions: registration, one-time codes, appointments, documents and staff sign-in.
// @contact.name    Portal Support
// @contact.email   support@gnportal.lk
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT.
func main() {
	application := app.New()
	wait := application.Start()
	<-wait

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	application.Stop(ctx)
}
