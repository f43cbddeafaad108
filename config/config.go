package config

import (
	"fmt"
	"os"
)

const DATABASE_NAME string = "bdbus"

const BUSES_COLLECTION string = "buses"
const BOOKINGS_COLLECTION string = "bookings"
const STATIONS_COLLECTION string = "stations"
const USERS_COLLECTION string = "users"

// PAYMENT_CURRENCY is the currency every payment intent is denominated in.
const PAYMENT_CURRENCY string = "usd"

const DEFAULT_PORT string = "5000"

func GetSecret(key string) (string, error) {
	val, exist := os.LookupEnv(key)
	if exist {
		return val, nil
	}
	return "", fmt.Errorf("no env variable with key %v", key)
}
