// Command ridersim runs the in-memory sandbox backend for local development
// of the rider app. It seeds one rider with a handful of orders in various
// lifecycle stages and prints the credentials to log on start.
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/openmenu/riderapp/internal/domain/model"
	"github.com/openmenu/riderapp/internal/logger"
	"github.com/openmenu/riderapp/internal/sandbox"
)

func main() {
	addr := flag.String("a", ":8080", "listen address")
	secret := flag.String("secret", "ridersim-dev-secret", "token signing secret")
	phone := flag.String("phone", "+923001234567", "seeded rider phone")
	password := flag.String("password", "rider123", "seeded rider password")
	flag.Parse()

	log := logger.New()

	box := sandbox.New(*secret, log)
	riderID, err := box.AddRider("Dev Rider", *phone, *password)
	if err != nil {
		log.Error("failed to seed rider", slog.String("error", err.Error()))
		os.Exit(1)
	}

	box.AddOrder(riderID, model.OrderStatusPending, "1111")
	box.AddOrder(riderID, model.OrderStatusReady, "2222")
	onTheWay := box.AddOrder(riderID, model.OrderStatusOnTheWay, "9081")
	box.AddNotification(riderID, model.NotificationOrderAssigned, "New order", "An order was assigned to you")

	log.Info("ridersim listening",
		slog.String("addr", *addr),
		slog.String("phone", *phone),
		slog.String("password", *password),
		slog.Int64("on_the_way_order", onTheWay),
	)

	if err := http.ListenAndServe(*addr, box.Router()); err != nil {
		log.Error("server terminated", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
