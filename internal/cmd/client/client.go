// Package clientcmd provides the CLI commands that talk to a running
// broker over gRPC.
package clientcmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	pubsubv1 "github.com/courier-mq/courier/api/pubsub/v1"
)

func serverAddr(cmd *cobra.Command) string {
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		return addr
	}
	if v := os.Getenv("COURIER_ADDR"); v != "" {
		return v
	}
	return "127.0.0.1:8085"
}

func dial(cmd *cobra.Command) (*grpc.ClientConn, error) {
	return grpc.NewClient(serverAddr(cmd), grpc.WithTransportCredentials(insecure.NewCredentials()))
}

// NewTopicCommand returns `courier topic` with create/delete/list/publish
// subcommands.
func NewTopicCommand() *cobra.Command {
	topicCmd := &cobra.Command{Use: "topic", Short: "Topic operations"}
	topicCmd.PersistentFlags().String("addr", "", "Broker gRPC address (default $COURIER_ADDR or 127.0.0.1:8085)")

	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := dial(cmd)
			if err != nil {
				return err
			}
			defer conn.Close()
			t, err := pubsubv1.NewPublisherClient(conn).CreateTopic(cmd.Context(), &pubsubv1.Topic{Name: args[0]})
			if err != nil {
				return err
			}
			fmt.Println("created topic", t.Name)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := dial(cmd)
			if err != nil {
				return err
			}
			defer conn.Close()
			if _, err := pubsubv1.NewPublisherClient(conn).DeleteTopic(cmd.Context(), &pubsubv1.DeleteTopicRequest{Topic: args[0]}); err != nil {
				return err
			}
			fmt.Println("deleted topic", args[0])
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := dial(cmd)
			if err != nil {
				return err
			}
			defer conn.Close()
			client := pubsubv1.NewPublisherClient(conn)
			token := ""
			for {
				res, err := client.ListTopics(cmd.Context(), &pubsubv1.ListTopicsRequest{PageToken: token})
				if err != nil {
					return err
				}
				for _, t := range res.Topics {
					fmt.Println(t.Name)
				}
				if res.NextPageToken == "" {
					return nil
				}
				token = res.NextPageToken
			}
		},
	}

	publishCmd := &cobra.Command{
		Use:   "publish <name> <payload>",
		Short: "Publish one message to a topic",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := dial(cmd)
			if err != nil {
				return err
			}
			defer conn.Close()
			attrs, _ := cmd.Flags().GetStringToString("attr")
			res, err := pubsubv1.NewPublisherClient(conn).Publish(cmd.Context(), &pubsubv1.PublishRequest{
				Topic:    args[0],
				Messages: []*pubsubv1.PubsubMessage{{Data: []byte(args[1]), Attributes: attrs}},
			})
			if err != nil {
				return err
			}
			fmt.Println("published message", res.MessageIDs[0])
			return nil
		},
	}
	publishCmd.Flags().StringToString("attr", nil, "Message attributes (key=value, repeatable)")

	topicCmd.AddCommand(createCmd, deleteCmd, listCmd, publishCmd)
	return topicCmd
}

// NewSubscriptionCommand returns `courier sub` with
// create/delete/list/pull subcommands.
func NewSubscriptionCommand() *cobra.Command {
	subCmd := &cobra.Command{Use: "sub", Short: "Subscription operations"}
	subCmd.PersistentFlags().String("addr", "", "Broker gRPC address (default $COURIER_ADDR or 127.0.0.1:8085)")

	createCmd := &cobra.Command{
		Use:   "create <name> <topic>",
		Short: "Create a subscription on a topic",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := dial(cmd)
			if err != nil {
				return err
			}
			defer conn.Close()
			deadline, _ := cmd.Flags().GetInt32("ack-deadline")
			filter, _ := cmd.Flags().GetString("filter")
			endpoint, _ := cmd.Flags().GetString("push-endpoint")
			sub := &pubsubv1.Subscription{
				Name:               args[0],
				Topic:              args[1],
				AckDeadlineSeconds: deadline,
				Filter:             filter,
			}
			if endpoint != "" {
				sub.PushConfig = &pubsubv1.PushConfig{PushEndpoint: endpoint}
			}
			got, err := pubsubv1.NewSubscriberClient(conn).CreateSubscription(cmd.Context(), sub)
			if err != nil {
				return err
			}
			fmt.Printf("created subscription %s on %s (ack deadline %ds)\n", got.Name, got.Topic, got.AckDeadlineSeconds)
			return nil
		},
	}
	createCmd.Flags().Int32("ack-deadline", 0, "Ack deadline in seconds (0 uses the server default)")
	createCmd.Flags().String("filter", "", "CEL filter expression")
	createCmd.Flags().String("push-endpoint", "", "Push delivery endpoint URL")

	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := dial(cmd)
			if err != nil {
				return err
			}
			defer conn.Close()
			if _, err := pubsubv1.NewSubscriberClient(conn).DeleteSubscription(cmd.Context(), &pubsubv1.DeleteSubscriptionRequest{Subscription: args[0]}); err != nil {
				return err
			}
			fmt.Println("deleted subscription", args[0])
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List subscriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := dial(cmd)
			if err != nil {
				return err
			}
			defer conn.Close()
			client := pubsubv1.NewSubscriberClient(conn)
			token := ""
			for {
				res, err := client.ListSubscriptions(cmd.Context(), &pubsubv1.ListSubscriptionsRequest{PageToken: token})
				if err != nil {
					return err
				}
				for _, s := range res.Subscriptions {
					fmt.Printf("%s\ttopic=%s\tack_deadline=%ds\n", s.Name, s.Topic, s.AckDeadlineSeconds)
				}
				if res.NextPageToken == "" {
					return nil
				}
				token = res.NextPageToken
			}
		},
	}

	pullCmd := &cobra.Command{
		Use:   "pull <name>",
		Short: "Pull and acknowledge messages from a subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := dial(cmd)
			if err != nil {
				return err
			}
			defer conn.Close()
			max, _ := cmd.Flags().GetInt32("max")
			wait, _ := cmd.Flags().GetBool("wait")
			noAck, _ := cmd.Flags().GetBool("no-ack")

			ctx := cmd.Context()
			if wait {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, time.Minute)
				defer cancel()
			}
			client := pubsubv1.NewSubscriberClient(conn)
			res, err := client.Pull(ctx, &pubsubv1.PullRequest{
				Subscription:      args[0],
				MaxMessages:       max,
				ReturnImmediately: !wait,
			})
			if err != nil {
				return err
			}
			ackIDs := make([]string, 0, len(res.ReceivedMessages))
			for _, rm := range res.ReceivedMessages {
				fmt.Printf("%s\tattempt=%d\t%s\n", rm.Message.MessageID, rm.DeliveryAttempt, rm.Message.Data)
				ackIDs = append(ackIDs, rm.AckID)
			}
			if noAck || len(ackIDs) == 0 {
				return nil
			}
			_, err = client.Acknowledge(cmd.Context(), &pubsubv1.AcknowledgeRequest{Subscription: args[0], AckIDs: ackIDs})
			return err
		},
	}
	pullCmd.Flags().Int32("max", 10, "Maximum messages per pull")
	pullCmd.Flags().Bool("wait", false, "Block until a message arrives")
	pullCmd.Flags().Bool("no-ack", false, "Print messages without acknowledging")

	subCmd.AddCommand(createCmd, deleteCmd, listCmd, pullCmd)
	return subCmd
}
