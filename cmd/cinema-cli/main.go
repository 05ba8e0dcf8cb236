// Command cinema-cli sends one request to a running ticket server and
// prints the response line. Build the request either from action flags
// or pass raw JSON with -raw.
//
//	cinema-cli -action list_movies
//	cinema-cli -action sell -movie 1 -customer Ada -tickets 2
//	cinema-cli -raw '{"action":"delete_movie","id":3}'
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"
)

func main() {
	var (
		addr     = flag.String("addr", "127.0.0.1:5000", "server address")
		timeout  = flag.Duration("timeout", 5*time.Second, "dial and I/O timeout")
		raw      = flag.String("raw", "", "raw JSON request, overrides all action flags")
		action   = flag.String("action", "list_movies", "list_movies | add_movie | update_movie | delete_movie | sell")
		id       = flag.Int64("id", 0, "movie id (update_movie, delete_movie)")
		title    = flag.String("title", "", "movie title")
		room     = flag.Int("room", 0, "cinema room")
		release  = flag.String("release", "", "release date")
		end      = flag.String("end", "", "end date")
		avail    = flag.Int("avail", 0, "tickets available")
		price    = flag.Float64("price", 0, "ticket price")
		movie    = flag.Int64("movie", 0, "movie id (sell)")
		customer = flag.String("customer", "", "customer name (sell)")
		tickets  = flag.Int("tickets", 0, "number of tickets (sell)")
	)
	flag.Parse()

	line := []byte(*raw)
	if *raw == "" {
		req := buildRequest(*action, *id, *title, *room, *release, *end, *avail, *price, *movie, *customer, *tickets)
		payload, err := json.Marshal(req)
		if err != nil {
			log.Fatalf("encode request: %v", err)
		}
		line = payload
	}

	conn, err := net.DialTimeout("tcp", *addr, *timeout)
	if err != nil {
		log.Fatalf("dial %s: %v", *addr, err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(*timeout))

	if _, err := conn.Write(append(line, '\n')); err != nil {
		log.Fatalf("send request: %v", err)
	}

	response, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		log.Fatalf("read response: %v", err)
	}
	fmt.Fprint(os.Stdout, response)
}

func buildRequest(action string, id int64, title string, room int, release, end string, avail int, price float64, movie int64, customer string, tickets int) map[string]any {
	req := map[string]any{"action": action}
	switch action {
	case "add_movie", "update_movie":
		req["title"] = title
		req["cinema_room"] = room
		req["release_date"] = release
		req["end_date"] = end
		req["tickets_available"] = avail
		req["ticket_price"] = price
		if action == "update_movie" {
			req["id"] = id
		}
	case "delete_movie":
		req["id"] = id
	case "sell":
		req["movie_id"] = movie
		req["customer_name"] = customer
		req["number_of_tickets"] = tickets
	}
	return req
}
